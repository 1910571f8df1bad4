package decoder

import (
	"fmt"
	"strconv"
	"strings"
)

// The resolver wraps its payload in a packed eval call. The argument list
// sits between these two literal markers and is structurally stable even
// though every other byte of the response changes per request.
const (
	invokeMarker = "decodeURIComponent(escape(r))}("
	closeMarker  = "))"
)

// Arguments is the five-part tuple that parameterizes the cipher.
// The invariant CharMap[Base] == Delimiter must hold; DecodePayload
// rejects tuples that violate it.
type Arguments struct {
	CipherText string // Obfuscated payload
	Delimiter  string // Segment terminator symbol
	CharMap    string // Ordered alphabet; a symbol's position is its digit value
	Offset     int    // Subtracted from each decoded value
	Base       int    // Radix the segments are written in
}

// ParseArguments locates the cipher call site in the raw response text and
// tokenizes its argument list. At least five arguments must be present;
// extra trailing arguments (the packer passes an unused accumulator seed)
// are ignored.
func ParseArguments(raw string) (*Arguments, error) {
	start := strings.Index(raw, invokeMarker)
	if start < 0 {
		return nil, fmt.Errorf("cipher call site: opening marker not found: %w", ErrMalformedPayload)
	}
	rest := raw[start+len(invokeMarker):]

	end := strings.Index(rest, closeMarker)
	if end < 0 {
		return nil, fmt.Errorf("cipher call site: closing marker not found: %w", ErrMalformedPayload)
	}

	fields := tokenizeArgs(rest[:end])
	if len(fields) < 5 {
		return nil, fmt.Errorf("cipher call site: got %d arguments, want at least 5: %w", len(fields), ErrMalformedPayload)
	}

	offset, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, fmt.Errorf("cipher offset %q is not numeric: %w", fields[3], ErrMalformedPayload)
	}
	base, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("cipher base %q is not numeric: %w", fields[4], ErrMalformedPayload)
	}

	return &Arguments{
		CipherText: fields[0],
		Delimiter:  fields[1],
		CharMap:    fields[2],
		Offset:     offset,
		Base:       base,
	}, nil
}

// tokenizeArgs splits a call-site argument list on commas, honoring
// double-quoted strings so quoted arguments may contain commas. Quotes
// are stripped; unquoted fields are whitespace-trimmed.
func tokenizeArgs(span string) []string {
	var fields []string
	var buf strings.Builder
	inQuote := false

	for i := 0; i < len(span); i++ {
		c := span[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case c == ',' && !inQuote:
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(buf.String()))
	return fields
}
