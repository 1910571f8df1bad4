// Package decoder reverses the custom segment cipher the resolver uses to
// obfuscate its server-rendered HTML, and unwraps the HTML fragment from
// the decoded script text. Everything here is pure string and byte work;
// no I/O happens in this package.
package decoder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// ErrMalformedPayload reports that the fetched response does not have
	// the structure the cipher envelope promises: a marker is missing, the
	// argument tuple is short, or a segment never terminates.
	ErrMalformedPayload = errors.New("malformed resolver payload")

	// ErrInvalidEncoding reports that decoding produced a byte sequence
	// that is not valid text.
	ErrInvalidEncoding = errors.New("decoded payload is not valid text")
)

// DecodePayload reverses the cipher described by args and returns the
// recovered script text.
//
// The cipher encodes one original byte per segment. Segments are split on
// the symbol at CharMap[Base]; each segment's symbols are substituted with
// their map indexes, the resulting digit string is read in the tuple's
// base, and the offset is subtracted to recover the byte. The byte buffer
// is then decoded as UTF-8, which restores multi-byte characters the
// cipher split apart.
func DecodePayload(args *Arguments) (string, error) {
	if args.Base < 2 || args.Base >= len(args.CharMap) {
		return "", fmt.Errorf("base %d has no delimiter slot in a %d-symbol map: %w",
			args.Base, len(args.CharMap), ErrMalformedPayload)
	}
	delim := args.CharMap[args.Base]
	if args.Delimiter != "" && args.Delimiter[0] != delim {
		return "", fmt.Errorf("delimiter %q is not at map index %d: %w",
			args.Delimiter, args.Base, ErrMalformedPayload)
	}

	// One decoded byte per segment, so the output can never exceed the
	// input length. Raw bytes, not runes: code points above 0xFF have no
	// meaning before the UTF-8 repair step.
	buf := make([]byte, 0, len(args.CipherText))

	text := args.CipherText
	for i := 0; i < len(text); {
		j := strings.IndexByte(text[i:], delim)
		if j < 0 {
			return "", fmt.Errorf("cipher segment at offset %d never terminates: %w", i, ErrMalformedPayload)
		}
		seg := text[i : i+j]
		i += j + 1

		b, err := decodeSegment(seg, args)
		if err != nil {
			return "", err
		}
		buf = append(buf, b)
	}

	if !utf8.Valid(buf) {
		return "", fmt.Errorf("byte repair: %w", ErrInvalidEncoding)
	}
	return string(buf), nil
}

// decodeSegment turns one delimiter-free segment into its original byte.
// Symbol substitution must walk the map in order: the packer guarantees
// earlier single-digit replacements are never valid map symbols, so later
// passes leave them alone.
func decodeSegment(seg string, args *Arguments) (byte, error) {
	for k := 0; k < len(args.CharMap); k++ {
		seg = strings.ReplaceAll(seg, string(args.CharMap[k]), strconv.Itoa(k))
	}

	dec, err := ConvertBase(seg, args.Base, 10)
	if err != nil {
		return 0, fmt.Errorf("segment %q: %w", seg, ErrMalformedPayload)
	}
	n, err := strconv.Atoi(dec)
	if err != nil {
		return 0, fmt.Errorf("segment value %q: %w", dec, ErrMalformedPayload)
	}

	n -= args.Offset
	if n < 0 || n > 0xFF {
		return 0, fmt.Errorf("segment decodes to %d, outside byte range: %w", n, ErrInvalidEncoding)
	}
	return byte(n), nil
}
