package workflow

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"snapgrab/internal/decoder"
	"snapgrab/internal/media"
)

const testPostURL = "https://www.instagram.com/p/Cxyz123/"

// stubFetcher returns a canned resolver response.
type stubFetcher struct {
	body string
	err  error
}

func (s stubFetcher) Fetch(ctx context.Context, postURL string) (string, error) {
	return s.body, s.err
}

// cipherParams mirrors the tuple the packer would choose.
const (
	testCharMap = "abcdef"
	testOffset  = 20
	testBase    = 5
)

// cipher encodes plain text the way the upstream packer does: one
// segment per byte, digits written with charMap symbols, segments closed
// by charMap[base].
func cipher(t *testing.T, plain string) string {
	t.Helper()
	var out strings.Builder
	for _, b := range []byte(plain) {
		digits, err := decoder.ConvertBase(strconv.Itoa(int(b)+testOffset), 10, testBase)
		if err != nil {
			t.Fatalf("ciphering byte %d: %v", b, err)
		}
		for i := 0; i < len(digits); i++ {
			out.WriteByte(testCharMap[digits[i]-'0'])
		}
		out.WriteByte(testCharMap[testBase])
	}
	return out.String()
}

// scriptedResponse builds a full obfuscated resolver response whose
// decoded script assigns html to the download section.
func scriptedResponse(t *testing.T, html string) string {
	t.Helper()
	script := `document.getElementById("download-section").innerHTML = "` +
		strings.ReplaceAll(html, `"`, `\"`) +
		`"; document.getElementById("inputData").remove(); document.getElementById("startDownload").remove();`

	return `<html><body><script>eval(function(h,u,n,t,e,r){r="";` +
		`decodeURIComponent(escape(r))}("` + cipher(t, script) + `", "` +
		string(testCharMap[testBase]) + `", "` + testCharMap + `", ` +
		strconv.Itoa(testOffset) + `, ` + strconv.Itoa(testBase) + `, 71))</script></body></html>`
}

func TestResolveTableLayout(t *testing.T) {
	html := `<article class="media"><figure><img src="https://cdn.example.com/p.jpg"></figure></article>` +
		`<span class="video-des">Caption</span>` +
		`<table class="table"><tbody>` +
		`<tr><td>720p</td><td>mp4</td><td><a href="https://cdn.example.com/v720.mp4">Download</a></td></tr>` +
		`<tr><td>360p</td><td>mp4</td><td><button onclick="get_progressApi('/progress?id=7')">Download</button></td></tr>` +
		`</tbody></table>`

	r := New(stubFetcher{body: scriptedResponse(t, html)})
	resp := r.Resolve(context.Background(), testPostURL)

	if !resp.Success {
		t.Fatalf("Resolve failed: %q", resp.Message)
	}
	if resp.Message != "" {
		t.Errorf("success response carries message %q", resp.Message)
	}
	if resp.Data == nil || len(resp.Data.Media) != 2 {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}

	second := resp.Data.Media[1]
	if !second.ShouldRender {
		t.Error("progress-API entry did not set ShouldRender")
	}
	if second.URL != "https://snapsave.app/progress?id=7" {
		t.Errorf("rewritten URL = %q", second.URL)
	}
	if resp.Data.Media[0].URL != "https://cdn.example.com/v720.mp4" {
		t.Errorf("direct URL = %q", resp.Data.Media[0].URL)
	}
}

func TestResolveNoMediaFound(t *testing.T) {
	r := New(stubFetcher{body: scriptedResponse(t, `<p>Nothing to see here.</p>`)})
	resp := r.Resolve(context.Background(), testPostURL)

	if resp.Success {
		t.Fatal("expected failure for media-free page")
	}
	if resp.Message != MsgNoMedia {
		t.Errorf("Message = %q, want %q", resp.Message, MsgNoMedia)
	}
	if resp.Data != nil {
		t.Errorf("failure response carries data: %+v", resp.Data)
	}
}

func TestResolveMalformedPayload(t *testing.T) {
	full := scriptedResponse(t, `<p>x</p>`)
	// Drop the closing marker of the cipher call site.
	truncated := full[:strings.LastIndex(full, "))")]

	r := New(stubFetcher{body: truncated})
	resp := r.Resolve(context.Background(), testPostURL)

	if resp.Success {
		t.Fatal("expected failure for truncated payload")
	}
	if resp.Message != MsgFailed {
		t.Errorf("Message = %q, want %q", resp.Message, MsgFailed)
	}
}

func TestResolveInvalidURL(t *testing.T) {
	r := New(stubFetcher{body: "never fetched"})
	resp := r.Resolve(context.Background(), "https://example.com/watch?v=1")

	if resp.Success || resp.Message != MsgInvalidURL {
		t.Errorf("got %+v, want failure with %q", resp, MsgInvalidURL)
	}
}

func TestResolveTransportFailure(t *testing.T) {
	r := New(stubFetcher{err: errors.New("connection reset")})
	resp := r.Resolve(context.Background(), testPostURL)

	if resp.Success {
		t.Fatal("expected failure when fetch errors")
	}
	if resp.Message != MsgFailed {
		t.Errorf("Message = %q, want %q", resp.Message, MsgFailed)
	}
}

func TestResolveAllKeepsOrder(t *testing.T) {
	html := `<article class="media"><figure><img src="https://cdn.example.com/p.jpg"></figure></article>` +
		`<a href="https://cdn.example.com/only.mp4">Download Video</a>`

	r := New(stubFetcher{body: scriptedResponse(t, html)})
	urls := []string{
		testPostURL,
		"https://example.com/nope",
		"https://www.tiktok.com/@user/video/7123456789012345678",
	}

	responses := r.ResolveAll(context.Background(), urls)
	if len(responses) != len(urls) {
		t.Fatalf("got %d responses, want %d", len(responses), len(urls))
	}
	if !responses[0].Success || !responses[2].Success {
		t.Errorf("supported URLs failed: %+v", responses)
	}
	if responses[1].Success || responses[1].Message != MsgInvalidURL {
		t.Errorf("unsupported URL did not fail correctly: %+v", responses[1])
	}
}

func TestResolveNeverReturnsPartialData(t *testing.T) {
	var resps []media.Response
	r := New(stubFetcher{body: "garbage"})
	resps = append(resps, r.Resolve(context.Background(), testPostURL))
	r = New(stubFetcher{err: errors.New("boom")})
	resps = append(resps, r.Resolve(context.Background(), testPostURL))

	for i, resp := range resps {
		if resp.Success == (resp.Message != "") {
			t.Errorf("response %d mixes variants: %+v", i, resp)
		}
		if !resp.Success && resp.Data != nil {
			t.Errorf("response %d carries partial data: %+v", i, resp)
		}
	}
}
