// Package platform classifies post URLs into the social platforms the
// resolver supports. Detection is a fixed table of regular expressions;
// there is no per-platform state or logic beyond the match.
package platform

import "regexp"

// Platform identifies a supported media source.
type Platform int

const (
	Unknown Platform = iota
	Instagram
	Facebook
	TikTok
)

func (p Platform) String() string {
	switch p {
	case Instagram:
		return "instagram"
	case Facebook:
		return "facebook"
	case TikTok:
		return "tiktok"
	default:
		return "unknown"
	}
}

// patterns is checked in declaration order; first match wins.
var patterns = []struct {
	platform Platform
	re       *regexp.Regexp
}{
	{Instagram, regexp.MustCompile(`^https?://(www\.)?instagram\.com/([^/]+/)?(p|reel|reels|tv|stories)/[^/?#]+`)},
	{Facebook, regexp.MustCompile(`^https?://((www|web|m|mbasic)\.)?facebook\.com/([^/?#]+/videos/|reel/|watch|share/|video\.php)`)},
	{Facebook, regexp.MustCompile(`^https?://fb\.watch/[^/?#]+`)},
	{TikTok, regexp.MustCompile(`^https?://((www|m)\.)?tiktok\.com/@[^/?#]+/(video|photo)/\d+`)},
	{TikTok, regexp.MustCompile(`^https?://(vm|vt)\.tiktok\.com/[^/?#]+`)},
}

// Detect returns the platform a post URL belongs to, or Unknown.
func Detect(rawURL string) Platform {
	for _, p := range patterns {
		if p.re.MatchString(rawURL) {
			return p.platform
		}
	}
	return Unknown
}

// Supported reports whether the URL belongs to a validated platform.
func Supported(rawURL string) bool {
	return Detect(rawURL) != Unknown
}
