package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/minhqn/footfeed/internal/metrics"
	"github.com/minhqn/footfeed/internal/timeparse"
)

// scorePlaceholder marks an unplayed match in the score span.
const scorePlaceholder = "?"

// defaultLeagueContext labels match blocks that appear before any header.
const defaultLeagueContext = "extra_details"

// livescoreFields drive the generic extractor for the per-match spans.
var livescoreFields = map[string]FieldSpec{
	"score": {Selector: "span.soccer-scores", Source: SourceText},
	"time":  {Selector: "span.time", Source: SourceText},
	"date":  {Selector: "span.date", Source: SourceText},
	"round": {Selector: "span.vongbang, span.vongbang2", Source: SourceTitle},
}

// Scraper builds domain records from fetched documents.
type Scraper struct {
	norm   *timeparse.Normalizer
	logger *zap.Logger
}

// NewScraper constructs a Scraper.
func NewScraper(norm *timeparse.Normalizer, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{norm: norm, logger: logger}
}

// Livescores walks the header/match sibling blocks of the livescore page and
// returns the matches involving club. A header block sets the league context
// for the match blocks that follow it.
func (s *Scraper) Livescores(doc *goquery.Document, club string) []MatchRecord {
	var matches []MatchRecord
	league := defaultLeagueContext

	doc.Find("div.calc > div").Each(func(_ int, div *goquery.Selection) {
		switch {
		case div.HasClass("football-header"):
			if name := strings.TrimSpace(div.Find("h3").First().Text()); name != "" {
				league = name
			}
		case div.HasClass("football-match-livescore"):
			record, ok := s.buildMatch(div, league, club)
			if ok {
				matches = append(matches, record)
			}
		}
	})

	metrics.ObserveRecords("livescore", len(matches))
	return matches
}

func (s *Scraper) buildMatch(div *goquery.Selection, league, club string) (MatchRecord, bool) {
	home := s.teamSide(div, ".club1")
	away := s.teamSide(div, ".club2")
	if home.Name == "" || away.Name == "" {
		metrics.ObserveDroppedRecord("livescore")
		s.logger.Warn("match block missing team name, dropping record", zap.String("league", league))
		return MatchRecord{}, false
	}
	if home.Name == away.Name {
		metrics.ObserveDroppedRecord("livescore")
		s.logger.Warn("match block with identical teams, dropping record", zap.String("team", home.Name))
		return MatchRecord{}, false
	}
	if club != home.Name && club != away.Name {
		return MatchRecord{}, false
	}

	fields, err := ExtractFields(div, livescoreFields)
	if err != nil {
		// No livescore span is mandatory; ExtractFields cannot fail here.
		fields = map[string]string{}
	}

	record := MatchRecord{
		League: league,
		Round:  fields["round"],
		Home:   home,
		Away:   away,
	}

	if score, ok := fields["score"]; ok && !strings.Contains(score, scorePlaceholder) {
		record.Score = &score
	}

	record.Time = fields["time"]
	if t, ok := s.norm.ParseFlexible(fields["time"]); ok {
		record.Time = s.norm.UTCTimeOfDay(t)
	}
	record.Date = fields["date"]
	if t, ok := s.norm.ParseFlexible(fields["date"]); ok {
		record.Date = s.norm.UTCDate(t)
	}

	return record, true
}

func (s *Scraper) teamSide(div *goquery.Selection, selector string) TeamSide {
	anchor := div.Find(selector).First()
	img := anchor.Find("img").First()
	return TeamSide{
		Name: normalizeText(img.AttrOr("alt", "")),
		Logo: img.AttrOr("src", ""),
		Link: anchor.AttrOr("href", ""),
	}
}
