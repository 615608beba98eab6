// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultExecutableName is used when os.Args does not carry a program name.
const DefaultExecutableName = "secrets-cli"

// ExecutableName returns the executable name without extension.
//
// Windows style paths are handled on every platform:
//   - "/usr/local/bin/secrets-cli" -> "secrets-cli"
//   - "C:\bin\secrets-cli.exe"     -> "secrets-cli"
func ExecutableName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return DefaultExecutableName
	}

	name := filepath.Base(os.Args[0])

	// filepath.Base only knows the host separator.
	if strings.ContainsAny(name, `\/`) {
		parts := strings.FieldsFunc(name, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			name = parts[len(parts)-1]
		}
	}

	return strings.TrimSuffix(name, ".exe")
}

// IsInteractive reports whether f is a character device, which is the case
// for a terminal and not for pipes or regular files.
func IsInteractive(f *os.File) bool {
	if f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
