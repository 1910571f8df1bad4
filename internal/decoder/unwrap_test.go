package decoder

import (
	"errors"
	"testing"
)

func TestUnwrapHTML(t *testing.T) {
	decoded := `document.getElementById("download-section").innerHTML = "` +
		`<div class=\"card\"><a href=\"https://cdn.example.com/v.mp4\">Download Video</a></div>` +
		`"; document.getElementById("inputData").remove(); document.getElementById("startDownload").remove();`

	want := `<div class="card"><a href="https://cdn.example.com/v.mp4">Download Video</a></div>`

	got, err := UnwrapHTML(decoded)
	if err != nil {
		t.Fatalf("UnwrapHTML: %v", err)
	}
	if got != want {
		t.Errorf("UnwrapHTML = %q, want %q", got, want)
	}
}

func TestUnwrapHTMLMissingMarkers(t *testing.T) {
	tests := []struct {
		name    string
		decoded string
	}{
		{"no assignment", `var x = "<div></div>"; document.getElementById("inputData").remove();`},
		{"no terminator", `("download-section").innerHTML = "<div></div>`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnwrapHTML(tt.decoded)
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("got %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`\"quoted\"`, `"quoted"`},
		{`no escapes`, `no escapes`},
		{`double \\ backslash`, `double \ backslash`},
		{`trailing \`, `trailing `},
		{``, ``},
	}

	for _, tt := range tests {
		if got := unescape(tt.in); got != tt.want {
			t.Errorf("unescape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
