package scrape

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/minhqn/footfeed/internal/dataset"
	"github.com/minhqn/footfeed/internal/metrics"
	"github.com/minhqn/footfeed/internal/resolve"
)

// Search-result table column headings.
const (
	colNamePosition = "Name/Position"
	colClub         = "Club"
	colNationality  = "Nat."
	colAge          = "Age"
)

// Caller-fixed resolution cutoffs.
const (
	clubCutoff        = 70
	nationalityCutoff = 80
)

// resultBoxes returns the result containers of the quick-search page: the
// divs that carry a category headline as a direct child.
func resultBoxes(doc *goquery.Document) *goquery.Selection {
	return doc.Find("div").FilterFunction(func(_ int, div *goquery.Selection) bool {
		return div.ChildrenFiltered("h2.content-box-headline").Length() > 0
	})
}

// headerColumns maps each heading to the index of the last underlying column
// it spans. A th with colspan=n advances the offset by n, not by 1.
func headerColumns(box *goquery.Selection) map[string]int {
	positions := make(map[string]int)
	count := 0
	box.Find("div.responsive-table>div>table>thead>tr>th").Each(func(_ int, th *goquery.Selection) {
		span := 1
		if raw, ok := th.Attr("colspan"); ok {
			if parsed, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && parsed > 0 {
				span = parsed
			}
		}
		count += span
		if heading := PreferText(th); heading != "" {
			positions[heading] = count - 1
		}
	})
	return positions
}

// Players extracts the players table from a quick-search results page,
// resolving club and nationality labels against the snapshot.
func (s *Scraper) Players(doc *goquery.Document, snap *dataset.Snapshot) []PlayerRecord {
	var records []PlayerRecord

	resultBoxes(doc).Each(func(_ int, box *goquery.Selection) {
		heading := PreferText(box.Find("h2.content-box-headline").First())
		if !strings.Contains(strings.ToLower(heading), "players") {
			return
		}
		columns := headerColumns(box)
		box.Find("div.responsive-table>div>table>tbody>tr").Each(func(_ int, tr *goquery.Selection) {
			if record, ok := s.buildPlayer(tr, columns, snap); ok {
				records = append(records, record)
			}
		})
	})

	metrics.ObserveRecords("player", len(records))
	return records
}

func (s *Scraper) buildPlayer(tr *goquery.Selection, columns map[string]int, snap *dataset.Snapshot) (PlayerRecord, bool) {
	tds := tr.ChildrenFiltered("td")
	var record PlayerRecord
	populated := false

	for heading, pos := range columns {
		if pos >= tds.Length() {
			continue
		}
		td := tds.Eq(pos)

		switch heading {
		case colNamePosition:
			nested := td.Find("tr").First()
			name := PreferText(nested.Find("td.hauptlink>a").First())
			if name == "" {
				metrics.ObserveDroppedRecord("player")
				s.logger.Warn("player row without a name, dropping record")
				return PlayerRecord{}, false
			}
			record.Name = name
			record.Image = nested.Find("td img").First().AttrOr("src", "")
			populated = true

		case colClub:
			label := PreferTitle(td.Find("img").First())
			if entity, ok := s.resolveEntity(label, snap, clubCutoff); ok {
				record.Club = &entity
				populated = true
			}

		case colNationality:
			td.Find("img").Each(func(_ int, img *goquery.Selection) {
				label := PreferTitle(img)
				entity, ok := s.resolveEntity(label, snap, nationalityCutoff)
				if !ok {
					metrics.ObserveResolutionMiss("nationality")
					s.logger.Warn("nationality not found in dataset", zap.String("label", label))
					return
				}
				record.Nationalities = append(record.Nationalities, entity)
				populated = true
			})

		case colAge:
			if age := PreferText(td); age != "" {
				record.Age = &age
				populated = true
			}
		}
	}

	return record, populated
}

func (s *Scraper) resolveEntity(label string, snap *dataset.Snapshot, cutoff int) (dataset.Entity, bool) {
	if label == "" {
		return dataset.Entity{}, false
	}
	matches := resolve.BestMatches(label, snap.Names(), cutoff, 1)
	if len(matches) == 0 {
		return dataset.Entity{}, false
	}
	return snap.Get(matches[0].Name)
}
