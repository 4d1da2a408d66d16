// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package operations

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/gobby/gobby-sub002/internal/docinfo"
)

// FallbackEncoding is assumed for files that are not valid UTF-8.
const FallbackEncoding = "ISO-8859-1"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// lookupEncoding resolves an encoding label such as "UTF-8" or "latin1".
// IANA names come first so "ISO-8859-1" stays Latin-1; WHATWG labels are
// the fallback, where that name would mean windows-1252.
func lookupEncoding(name string) (encoding.Encoding, error) {
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// ValidEncoding reports whether name can be used for saving.
func ValidEncoding(name string) bool {
	_, err := lookupEncoding(name)
	return err == nil
}

// encodeText converts UTF-8 text into enc. Characters enc cannot represent
// make the whole conversion fail.
func encodeText(enc encoding.Encoding, text string) ([]byte, error) {
	data, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// decodeText converts file content to UTF-8 and reports the encoding it
// assumed. A UTF-8 byte order mark is dropped.
func decodeText(data []byte) (text, encodingName string, err error) {
	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, utf8BOM)), docinfo.DefaultEncoding, nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("decode: %w", err)
	}
	return string(out), FallbackEncoding, nil
}
