// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509certs provides encoding, decoding, fingerprinting and textual rendering
// of [X.509] certificates. It supports [PEM], DER and [PKCS7] inputs, and produces the
// colon-separated uppercase fingerprints and full readable dumps that an operator
// compares before pinning a service certificate.
//
// [X.509]: https://grokipedia.com/page/X.509
// [PKCS7]: https://grokipedia.com/page/PKCS_7
// [PEM]: https://grokipedia.com/page/PEM#privacy-enhanced-mail
package x509certs
