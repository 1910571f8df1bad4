package decoder

import (
	"fmt"
	"strings"
)

// The decoded script assigns the rendered fragment to the download
// section and then removes its own input element. Both statements are
// literal in every payload variant observed.
const (
	htmlStartMarker = `("download-section").innerHTML = "`
	htmlEndMarker   = `"; document.getElementById("inputData").remove();`
)

// UnwrapHTML extracts the HTML fragment embedded in decoded script text
// and strips the backslash escaping the assignment added.
func UnwrapHTML(decoded string) (string, error) {
	start := strings.Index(decoded, htmlStartMarker)
	if start < 0 {
		return "", fmt.Errorf("embedded HTML: assignment marker not found: %w", ErrMalformedPayload)
	}
	rest := decoded[start+len(htmlStartMarker):]

	end := strings.Index(rest, htmlEndMarker)
	if end < 0 {
		return "", fmt.Errorf("embedded HTML: terminator not found: %w", ErrMalformedPayload)
	}

	return unescape(rest[:end]), nil
}

// unescape removes each backslash that escapes the following character.
// A trailing lone backslash is dropped.
func unescape(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			if i == len(s) {
				break
			}
		}
		out.WriteByte(s[i])
	}
	return out.String()
}
