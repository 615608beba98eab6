// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or use this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

type foreignBuffer struct{ bytes.Buffer }

func TestPool(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Get returns empty buffer after Put",
			testFunc: func(t *testing.T) {
				buf := Default.Get()
				buf.WriteString("leftover")
				Default.Put(buf)

				next := Default.Get()
				defer Default.Put(next)
				assert.Equal(t, 0, next.Len(), "pooled buffer must be reset")
			},
		},
		{
			name: "Put ignores foreign buffers",
			testFunc: func(t *testing.T) {
				assert.NotPanics(t, func() { Default.Put(&foreignBuffer{}) })
			},
		},
		{
			name: "Render copies output",
			testFunc: func(t *testing.T) {
				out := Render(func(buf Buffer) {
					buf.WriteString("AB")
					buf.WriteByte(':')
					buf.WriteString("CD")
				})
				assert.Equal(t, "AB:CD", out)
			},
		},
		{
			name: "ReadAll returns owned copy",
			testFunc: func(t *testing.T) {
				data, err := ReadAll(strings.NewReader("trusted_hosts"))
				require.NoError(t, err)

				// Dirty the pool; the returned slice must not change.
				Render(func(buf Buffer) { buf.WriteString("XXXXXXXXXXXXX") })
				assert.Equal(t, "trusted_hosts", string(data))
			},
		},
		{
			name: "ReadAll propagates reader errors",
			testFunc: func(t *testing.T) {
				data, err := ReadAll(failingReader{})
				assert.Error(t, err)
				assert.Nil(t, data)
			},
		},
		{
			name: "Concurrent Render",
			testFunc: func(t *testing.T) {
				var wg sync.WaitGroup
				for i := range 32 {
					wg.Add(1)
					go func(n int) {
						defer wg.Done()
						want := strings.Repeat("x", n)
						got := Render(func(buf Buffer) { buf.WriteString(want) })
						assert.Equal(t, want, got)
					}(i)
				}
				wg.Wait()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}
