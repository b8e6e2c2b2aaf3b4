package scrape

import (
	"github.com/bytedance/sonic"

	"github.com/minhqn/footfeed/internal/dataset"
)

// TeamSide is one side of a match: a club with display attributes.
type TeamSide struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
	Link string `json:"link"`
}

// MatchRecord is a live-score row for a club. Time and Date are UTC
// components when the upstream text parsed, otherwise the raw text. Score is
// nil while the upstream shows a placeholder.
type MatchRecord struct {
	League string   `json:"league"`
	Time   string   `json:"time"`
	Date   string   `json:"date"`
	Round  string   `json:"round"`
	Home   TeamSide `json:"home"`
	Away   TeamSide `json:"away"`
	Score  *string  `json:"scores"`
}

// NewsItem is one article from a club news listing. Summary and Published
// stay nil when their containers are absent.
type NewsItem struct {
	Link      string  `json:"link"`
	Title     string  `json:"title"`
	Summary   *string `json:"summary"`
	Published *string `json:"time"`
}

// PlayerRecord is one row of a player search result. Club is nil unless the
// extracted label resolved against the dataset; Nationalities holds only the
// flags that resolved, in flag order. Age is nil when the row was too short.
type PlayerRecord struct {
	Name          string           `json:"name"`
	Image         string           `json:"image"`
	Club          *dataset.Entity  `json:"club,omitempty"`
	Nationalities []dataset.Entity `json:"country,omitempty"`
	Age           *string          `json:"age"`
}

// UpcomingMatch describes the first scheduled match from the next-matches
// feed, with the kickoff already rendered in the display timezone.
type UpcomingMatch struct {
	Label     string `json:"label"`
	Home      string `json:"home"`
	HomeImage string `json:"home_img"`
	Away      string `json:"away"`
	AwayImage string `json:"away_img"`
	Kickoff   string `json:"time"`
}

// noDataMarker is the literal value upstream consumers expect when a query
// resolved but no match is scheduled.
const noDataMarker = "No data found"

// UpcomingResult pairs a queried name with either its upcoming match or the
// no-data marker.
type UpcomingResult struct {
	Name  string
	Image string
	Match *UpcomingMatch
}

// MarshalJSON renders the no-data marker in place of the match object when
// the feed had no scheduled matches.
func (r UpcomingResult) MarshalJSON() ([]byte, error) {
	payload := map[string]any{
		"name":  r.Name,
		"image": r.Image,
	}
	if r.Match != nil {
		payload["upcoming_match"] = r.Match
	} else {
		payload["upcoming_match"] = noDataMarker
	}
	return sonic.Marshal(payload)
}
