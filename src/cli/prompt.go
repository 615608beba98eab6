// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/H0llyW00dzZ/secrets-cli/src/internal/helper/posix"
)

// ErrNotAccepted is returned when the operator declines the certificate.
var ErrNotAccepted = errors.New("certificate not accepted")

// confirm asks question on out and reads yes or no from in. Anything else is
// asked again. End of input declines.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	reader := bufio.NewReader(in)

	for {
		fmt.Fprintf(out, "%s (yes/no): ", question)

		response, err := reader.ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))

		switch response {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}

		if err != nil {
			fmt.Fprintln(out)
			if f, ok := in.(*os.File); ok && !posix.IsInteractive(f) {
				return false, fmt.Errorf("%w: stdin is not a terminal, pass --yes to accept non-interactively", ErrNotAccepted)
			}
			return false, fmt.Errorf("%w: no answer", ErrNotAccepted)
		}
		fmt.Fprintln(out, "Please answer 'yes' or 'no'")
	}
}
