package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize performs input normalization at the lexer boundary:
//  1. strips a UTF-8 BOM if present
//  2. applies Unicode NFC normalization
//
// so that lexically equivalent source produces identical token streams
// regardless of the encoding a file was saved with.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}
