// Package extract turns the resolver's unwrapped HTML into media
// descriptors. The service renders one of four loosely-typed layouts;
// each gets its own extraction routine over a parsed goquery document.
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"snapgrab/internal/media"
)

// renderHost prefixes progress-API paths captured from click handlers.
const renderHost = "https://snapsave.app"

// thumbProxyPrefix wraps photo thumbnails in the download-items layout.
const thumbProxyPrefix = "https://snapinsta.app/photo.php?photo="

// progressCallRe matches the onclick handler that routes a download
// through the resolver's progress API instead of linking a file directly.
var progressCallRe = regexp.MustCompile(`(?i)get_progressApi\('(.*?)'\)`)

// photoLabel in a link or button marks an image download; any other
// label means video.
const photoLabel = "Download Photo"

// Extract produces media descriptors from an unwrapped result document.
// It is total: an unrecognized structure yields a result with empty
// Media, which the caller treats as a failure.
func Extract(doc *goquery.Document) media.ExtractionResult {
	var result media.ExtractionResult

	variant := detectLayout(doc)

	switch variant {
	case layoutTable, layoutCard, layoutSimple:
		result.Description = strings.TrimSpace(doc.Find("span.video-des").First().Text())
		result.Preview = doc.Find("article.media > figure img").First().AttrOr("src", "")
	}

	switch variant {
	case layoutTable:
		result.Media = extractTable(doc)
	case layoutCard:
		result.Media = extractCards(doc)
	case layoutSimple:
		result.Media = extractSimple(doc)
	case layoutDownloadItems:
		result.Media = extractDownloadItems(doc)
	}

	return result
}

// extractTable handles the quality table: one row per option, resolution
// label in the first cell and a link or click handler in the last.
func extractTable(doc *goquery.Document) []media.Descriptor {
	var items []media.Descriptor

	doc.Find("table.table tbody > tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		resolution := strings.TrimSpace(cells.First().Text())

		action := cells.Last()
		target, ok := action.Find("a").First().Attr("href")
		if !ok {
			target, ok = action.Find("button").First().Attr("onclick")
		}
		if !ok || target == "" {
			return
		}

		d := media.Descriptor{Resolution: resolution, Type: media.Image}
		if resolution != "" {
			d.Type = media.Video
		}

		if m := progressCallRe.FindStringSubmatch(target); m != nil {
			d.ShouldRender = true
			d.URL = renderHost + m[1]
		} else {
			d.URL = target
		}

		items = append(items, d)
	})

	return items
}

// extractCards handles the card grid: one card per option, an anchor per
// card, type inferred from the link text.
func extractCards(doc *goquery.Document) []media.Descriptor {
	var items []media.Descriptor

	doc.Find("div.card").Each(func(_ int, card *goquery.Selection) {
		link := card.Find("a").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		items = append(items, media.Descriptor{
			URL:  href,
			Type: typeFromLabel(link.Text()),
		})
	})

	return items
}

// extractSimple handles the degenerate layout: a single anchor or button
// is the only option on the page.
func extractSimple(doc *goquery.Document) []media.Descriptor {
	link := doc.Find("a[href]").First()
	if link.Length() > 0 {
		return []media.Descriptor{{
			URL:  link.AttrOr("href", ""),
			Type: typeFromLabel(link.Text()),
		}}
	}

	button := doc.Find("button[onclick]").First()
	if button.Length() > 0 {
		return []media.Descriptor{{
			URL:  button.AttrOr("onclick", ""),
			Type: typeFromLabel(button.Text()),
		}}
	}

	return nil
}

// extractDownloadItems handles the thumbnail list: one item per
// thumbnail+button group. Video thumbnails come wrapped in a photo proxy
// URL and are rewritten to the underlying CDN address.
func extractDownloadItems(doc *goquery.Document) []media.Descriptor {
	var items []media.Descriptor

	doc.Find("div.download-items").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("div.download-items__btn > a").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}

		d := media.Descriptor{
			URL:  href,
			Type: typeFromLabel(link.Text()),
		}

		if d.Type == media.Video {
			if thumb, ok := item.Find("div.download-items__thumb > img").First().Attr("src"); ok && thumb != "" {
				d.Thumbnail = FixThumbnailURL(thumb)
			}
		}

		items = append(items, d)
	})

	return items
}

// typeFromLabel infers the media type from a download link's text.
func typeFromLabel(label string) media.Type {
	if strings.Contains(label, photoLabel) {
		return media.Image
	}
	return media.Video
}

// FixThumbnailURL undoes the resolver's photo-proxy wrapping: the proxied
// URL carries the real CDN address percent-encoded in its query. URLs
// without the proxy prefix pass through unchanged.
func FixThumbnailURL(thumb string) string {
	if !strings.HasPrefix(thumb, thumbProxyPrefix) {
		return thumb
	}
	inner := strings.TrimPrefix(thumb, thumbProxyPrefix)
	decoded, err := url.QueryUnescape(inner)
	if err != nil {
		return inner
	}
	return decoded
}
