package decoder

import (
	"fmt"
	"strings"
)

// alphabet defines digit values 0..63 for every base the cipher can use.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ+/"

// MaxBase is the largest radix ConvertBase accepts.
const MaxBase = len(alphabet)

// ConvertBase re-expresses digits, written in fromBase, as a digit string
// in toBase. Digits are read most-significant first. Symbols that are not
// valid digits in fromBase contribute zero rather than failing; the
// upstream packer relies on that tolerance. Zero converts to "0".
func ConvertBase(digits string, fromBase, toBase int) (string, error) {
	if fromBase < 2 || fromBase > MaxBase {
		return "", fmt.Errorf("source base %d out of range [2,%d]", fromBase, MaxBase)
	}
	if toBase < 2 || toBase > MaxBase {
		return "", fmt.Errorf("target base %d out of range [2,%d]", toBase, MaxBase)
	}

	src := alphabet[:fromBase]
	var value uint64
	pow := uint64(1)
	for i := len(digits) - 1; i >= 0; i-- {
		if idx := strings.IndexByte(src, digits[i]); idx >= 0 {
			value += uint64(idx) * pow
		}
		pow *= uint64(fromBase)
	}

	if value == 0 {
		return "0", nil
	}

	var out []byte
	for value > 0 {
		out = append(out, alphabet[value%uint64(toBase)])
		value /= uint64(toBase)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}
