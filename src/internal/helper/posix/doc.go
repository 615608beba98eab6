// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides [POSIX]-style process helpers used by the command line surface.
//
// Key functions:
//   - ExecutableName: the binary name without extension, for usage strings
//   - IsInteractive: whether a file is attached to a terminal, used to decide
//     if the trust prompt can be shown
//
// [POSIX]: https://grokipedia.com/page/POSIX
package posix
