// Package orchestrate composes fetching and scraping into the operations the
// HTTP layer exposes, including the concurrent upcoming-match fan-out.
package orchestrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/minhqn/footfeed/internal/config"
	"github.com/minhqn/footfeed/internal/dataset"
	"github.com/minhqn/footfeed/internal/fetch"
	"github.com/minhqn/footfeed/internal/scrape"
)

// Search categories accepted by the upcoming-match operations.
const (
	CategoryPlayers = "players"
	CategoryClubs   = "clubs"
)

// Orchestrator drives the scrape operations against the configured upstreams.
type Orchestrator struct {
	fetcher     *fetch.Client
	scraper     *scrape.Scraper
	pool        *ants.Pool
	upstream    config.UpstreamConfig
	displayZone string
	logger      *zap.Logger
}

// New wires an Orchestrator. The pool bounds the upcoming-match fan-out and is
// owned by the caller.
func New(fetcher *fetch.Client, scraper *scrape.Scraper, pool *ants.Pool, upstream config.UpstreamConfig, displayZone string, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher:     fetcher,
		scraper:     scraper,
		pool:        pool,
		upstream:    upstream,
		displayZone: displayZone,
		logger:      logger,
	}
}

// Livescores fetches the live-score listing and returns the matches where
// club plays. date is passed through to the upstream untouched.
func (o *Orchestrator) Livescores(ctx context.Context, club, date string) ([]scrape.MatchRecord, error) {
	target, err := withQuery(o.upstream.LivescoreURL, map[string]string{"date": date})
	if err != nil {
		return nil, err
	}
	doc, err := o.fetcher.FetchDocument(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("livescore page: %w: %w", ErrFetchFailed, err)
	}
	return o.scraper.Livescores(doc, club), nil
}

// News fetches a club page and returns its article listing. Relative club
// links are resolved against the configured club base URL.
func (o *Orchestrator) News(ctx context.Context, clubLink string) ([]scrape.NewsItem, error) {
	pageURL := clubLink
	if base, err := url.Parse(o.upstream.ClubBaseURL); err == nil {
		if ref, err := url.Parse(clubLink); err == nil {
			pageURL = base.ResolveReference(ref).String()
		}
	}
	doc, err := o.fetcher.FetchDocument(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("club page: %w: %w", ErrFetchFailed, err)
	}
	return o.scraper.News(doc, pageURL), nil
}

// SearchPlayers runs a quick search for player and resolves the result table
// against the snapshot.
func (o *Orchestrator) SearchPlayers(ctx context.Context, player string, snap *dataset.Snapshot) ([]scrape.PlayerRecord, error) {
	doc, err := o.searchPage(ctx, player)
	if err != nil {
		return nil, err
	}
	return o.scraper.Players(doc, snap), nil
}

// UpcomingMatches resolves a single query term: one search-page fetch, then
// one concurrent next-match fetch per candidate. For the players category
// only candidates whose name contains the query survive; clubs are taken
// unconditionally. Results come back in candidate order with failed lookups
// skipped.
func (o *Orchestrator) UpcomingMatches(ctx context.Context, query, category string) ([]scrape.UpcomingResult, error) {
	if category != CategoryPlayers && category != CategoryClubs {
		return nil, fmt.Errorf("%w: %q", ErrBadCategory, category)
	}

	doc, err := o.searchPage(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates := o.scraper.Candidates(doc, category)
	if category == CategoryPlayers {
		candidates = filterBySubstring(candidates, query)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	type outcome struct {
		result scrape.UpcomingResult
		err    error
	}
	outcomes := make([]outcome, len(candidates))

	var workers sync.WaitGroup
	for i, cand := range candidates {
		i, cand := i, cand
		workers.Add(1)
		if err := o.pool.Submit(func() {
			defer workers.Done()
			result, err := o.fetchUpcoming(ctx, cand, category)
			outcomes[i] = outcome{result: result, err: err}
		}); err != nil {
			workers.Done()
			outcomes[i] = outcome{err: fmt.Errorf("submit next-match task: %w", err)}
		}
	}
	workers.Wait()

	results := make([]scrape.UpcomingResult, 0, len(candidates))
	for i, out := range outcomes {
		if out.err != nil {
			o.logger.Warn("next-match lookup failed, skipping candidate",
				zap.String("candidate", candidates[i].Name),
				zap.Error(out.err))
			continue
		}
		results = append(results, out.result)
	}
	return results, nil
}

// UpcomingMatchesBatch splits a comma-delimited query list and resolves each
// term independently. A zero-record aggregate reports ErrNotFound unless an
// outer search fetch failed, in which case that failure is surfaced instead.
func (o *Orchestrator) UpcomingMatchesBatch(ctx context.Context, csvQueries, category string) ([]scrape.UpcomingResult, error) {
	var all []scrape.UpcomingResult
	var firstFetchErr error

	for _, term := range strings.Split(csvQueries, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		results, err := o.UpcomingMatches(ctx, term, category)
		if err != nil {
			if errors.Is(err, ErrBadCategory) {
				return nil, err
			}
			o.logger.Warn("search fetch failed, continuing batch",
				zap.String("term", term), zap.Error(err))
			if firstFetchErr == nil {
				firstFetchErr = err
			}
			continue
		}
		all = append(all, results...)
	}

	if len(all) == 0 {
		if firstFetchErr != nil {
			return nil, firstFetchErr
		}
		return nil, ErrNotFound
	}
	return all, nil
}

// Trending fetches the daily trending searches for a country code and returns
// the decoded trendingSearchesDays value.
func (o *Orchestrator) Trending(ctx context.Context, country string) (json.RawMessage, error) {
	target, err := withQuery(o.upstream.TrendingURL, map[string]string{
		"hl":  "en-US",
		"geo": country,
		"ns":  "15",
	})
	if err != nil {
		return nil, err
	}
	payload, err := o.fetcher.FetchText(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("trending feed: %w: %w", ErrFetchFailed, err)
	}
	return scrape.ParseTrending(payload)
}

func (o *Orchestrator) searchPage(ctx context.Context, query string) (*goquery.Document, error) {
	target, err := withQuery(o.upstream.SearchURL, map[string]string{"query": query})
	if err != nil {
		return nil, err
	}
	doc, err := o.fetcher.FetchDocument(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("search page for %q: %w: %w", query, ErrFetchFailed, err)
	}
	return doc, nil
}

func (o *Orchestrator) fetchUpcoming(ctx context.Context, cand scrape.Candidate, category string) (scrape.UpcomingResult, error) {
	target := o.upstream.NextMatchesBase + nextMatchKind(category) + "/" + cand.ID
	var resp scrape.NextMatchesResponse
	if err := o.fetcher.FetchJSON(ctx, target, &resp); err != nil {
		return scrape.UpcomingResult{}, err
	}
	return scrape.BuildUpcoming(cand.Name, cand.Image, resp, o.displayZone)
}

// nextMatchKind maps a search category to the path segment the next-matches
// feed discriminates on.
func nextMatchKind(category string) string {
	if category == CategoryClubs {
		return "team"
	}
	return "player"
}

func filterBySubstring(candidates []scrape.Candidate, query string) []scrape.Candidate {
	needle := strings.ToLower(query)
	kept := candidates[:0:0]
	for _, cand := range candidates {
		if strings.Contains(strings.ToLower(cand.Name), needle) {
			kept = append(kept, cand)
		}
	}
	return kept
}

func withQuery(rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse upstream url %q: %w", rawURL, err)
	}
	q := u.Query()
	for key, value := range params {
		if value != "" {
			q.Set(key, value)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
