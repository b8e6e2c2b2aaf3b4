package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Candidate is one row of a quick-search category table that carries a
// resolvable identifier for the next-matches feed.
type Candidate struct {
	Name  string
	Image string
	ID    string
}

// Candidates walks the result boxes of a quick-search page and returns the
// rows under the heading matching category ("players" or "clubs"). Rows
// without an identifier are skipped.
func (s *Scraper) Candidates(doc *goquery.Document, category string) []Candidate {
	var out []Candidate

	resultBoxes(doc).Each(func(_ int, box *goquery.Selection) {
		heading := PreferText(box.Find("h2.content-box-headline").First())
		if !strings.Contains(strings.ToLower(heading), category) {
			return
		}

		box.Find("div.responsive-table>div>table>tbody>tr").Each(func(_ int, tr *goquery.Selection) {
			anchor := tr.Find("td.hauptlink").First().Find("a").First()
			if anchor.Length() == 0 {
				return
			}
			name := PreferText(anchor)
			id := idFromHref(anchor.AttrOr("href", ""))
			if name == "" || id == "" {
				return
			}

			cand := Candidate{Name: name, ID: id}
			if crest := tr.Find("td.zentriert.suche-vereinswappen").First(); crest.Length() > 0 {
				cand.Image = ImageSource(crest.Find("img").First())
			}
			out = append(out, cand)
		})
	})

	return out
}

// idFromHref extracts the trailing path segment of a result link.
func idFromHref(href string) string {
	if href == "" {
		return ""
	}
	parts := strings.Split(href, "/")
	return parts[len(parts)-1]
}
