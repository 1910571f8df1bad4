package extract

import "github.com/PuerkitoBio/goquery"

// layout is the closed set of page shapes the resolver is known to
// render. Detection is a single structural pass; extraction logic is a
// total function per variant.
type layout int

const (
	layoutNone layout = iota
	layoutTable
	layoutCard
	layoutSimple
	layoutDownloadItems
)

func (l layout) String() string {
	switch l {
	case layoutTable:
		return "table"
	case layoutCard:
		return "card"
	case layoutSimple:
		return "simple"
	case layoutDownloadItems:
		return "download-items"
	default:
		return "none"
	}
}

// detectLayout sniffs the document structure. Priority order matters: the
// metadata-bearing branch (table, card, simple) always wins over the
// download-items branch, and within it a table beats a card beats the
// single-link fallback.
func detectLayout(doc *goquery.Document) layout {
	hasTable := doc.Find("table.table").Length() > 0
	hasFigure := doc.Find("article.media > figure").Length() > 0

	if hasTable || hasFigure {
		switch {
		case hasTable:
			return layoutTable
		case doc.Find("div.card").Length() > 0:
			return layoutCard
		default:
			return layoutSimple
		}
	}

	if doc.Find("div.download-items").Length() > 0 {
		return layoutDownloadItems
	}
	return layoutNone
}
