package scrape

import (
	"fmt"
	"strconv"

	"github.com/minhqn/footfeed/internal/timeparse"
)

// NextMatchesResponse mirrors the next-matches JSON feed.
type NextMatchesResponse struct {
	Matches []struct {
		Competition struct {
			Label string `json:"label"`
		} `json:"competition"`
		Match struct {
			Home int64 `json:"home"`
			Away int64 `json:"away"`
			Time int64 `json:"time"`
		} `json:"match"`
	} `json:"matches"`
	Teams map[string]struct {
		Name    string `json:"name"`
		Image2x string `json:"image2x"`
	} `json:"teams"`
}

// BuildUpcoming shapes a next-matches payload into an UpcomingResult for the
// queried name. An empty matches array yields the no-data marker; a match
// referencing a team id absent from the teams map is an error.
func BuildUpcoming(name, image string, resp NextMatchesResponse, displayZone string) (UpcomingResult, error) {
	result := UpcomingResult{Name: name, Image: image}
	if len(resp.Matches) == 0 {
		return result, nil
	}

	first := resp.Matches[0]
	home, ok := resp.Teams[strconv.FormatInt(first.Match.Home, 10)]
	if !ok {
		return UpcomingResult{}, fmt.Errorf("home team id %d not in teams map", first.Match.Home)
	}
	away, ok := resp.Teams[strconv.FormatInt(first.Match.Away, 10)]
	if !ok {
		return UpcomingResult{}, fmt.Errorf("away team id %d not in teams map", first.Match.Away)
	}

	kickoff, err := timeparse.FormatEpoch(first.Match.Time, displayZone)
	if err != nil {
		return UpcomingResult{}, fmt.Errorf("format kickoff: %w", err)
	}

	result.Match = &UpcomingMatch{
		Label:     first.Competition.Label,
		Home:      home.Name,
		HomeImage: home.Image2x,
		Away:      away.Name,
		AwayImage: away.Image2x,
		Kickoff:   kickoff,
	}
	return result, nil
}
