package dataset

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/minhqn/footfeed/internal/fetch"
)

// WorldCupCategory tags country rows harvested from the FIFA ranking page.
const WorldCupCategory = "World Cup"

// HarvesterConfig names the pages the harvester scrapes.
type HarvesterConfig struct {
	StandingsURL   string
	FIFARankingURL string
	BaseURL        string
	// PageDelay spaces out league-page fetches to stay polite.
	PageDelay time.Duration
}

// Harvester builds the canonical dataset by scraping league standing pages
// for clubs and the FIFA ranking page for countries.
type Harvester struct {
	fetcher *fetch.Client
	cfg     HarvesterConfig
	logger  *zap.Logger
}

// NewHarvester constructs a Harvester.
func NewHarvester(fetcher *fetch.Client, cfg HarvesterConfig, logger *zap.Logger) *Harvester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harvester{fetcher: fetcher, cfg: cfg, logger: logger}
}

// LeagueLinks collects the per-league standing page URLs from the navigation
// strip of the standings page.
func (h *Harvester) LeagueLinks(ctx context.Context) ([]string, error) {
	doc, err := h.fetcher.FetchDocument(ctx, h.cfg.StandingsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch standings page: %w", err)
	}
	base, err := url.Parse(h.cfg.StandingsURL)
	if err != nil {
		return nil, fmt.Errorf("parse standings url: %w", err)
	}

	var links []string
	doc.Find("div.nav-score a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		if ref, err := url.Parse(href); err == nil {
			links = append(links, base.ResolveReference(ref).String())
		}
	})
	return links, nil
}

// HarvestClubs scrapes each league page for club anchors and returns one
// entity per club, tagged with the league name the page is active under.
func (h *Harvester) HarvestClubs(ctx context.Context, leagueLinks []string) ([]Entity, error) {
	base, err := url.Parse(h.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var out []Entity
	for i, link := range leagueLinks {
		if !strings.Contains(link, "://") {
			continue
		}
		if i > 0 && h.cfg.PageDelay > 0 {
			select {
			case <-time.After(h.cfg.PageDelay):
			case <-ctx.Done():
				return out, ctx.Err()
			}
		}

		doc, err := h.fetcher.FetchDocument(ctx, link)
		if err != nil {
			h.logger.Warn("league page fetch failed", zap.String("url", link), zap.Error(err))
			continue
		}

		clubs := doc.Find("a.link-clb")
		if clubs.Length() == 0 {
			continue
		}
		league := strings.TrimSpace(doc.Find("div.nav-score a.active").First().Text())

		clubs.Each(func(_ int, a *goquery.Selection) {
			img := a.ChildrenFiltered("img").First()
			name := strings.TrimSpace(img.AttrOr("alt", ""))
			if name == "" {
				return
			}
			entity := Entity{
				Name:     name,
				Logo:     img.AttrOr("src", ""),
				Category: league,
			}
			if href, ok := a.Attr("href"); ok {
				if ref, err := url.Parse(href); err == nil {
					entity.Link = base.ResolveReference(ref).String()
				}
			}
			out = append(out, entity)
		})
		h.logger.Info("league harvested", zap.Int("index", i), zap.String("url", link))
	}
	return out, nil
}

// HarvestCountries scrapes the FIFA ranking page for national teams.
func (h *Harvester) HarvestCountries(ctx context.Context) ([]Entity, error) {
	doc, err := h.fetcher.FetchDocument(ctx, h.cfg.FIFARankingURL)
	if err != nil {
		return nil, fmt.Errorf("fetch fifa ranking page: %w", err)
	}
	base, err := url.Parse(h.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var out []Entity
	doc.Find("section.section.calc div.fifa-text>a").Each(func(_ int, a *goquery.Selection) {
		name := strings.TrimSpace(a.Text())
		if name == "" {
			return
		}
		entity := Entity{Name: name, Category: WorldCupCategory}
		if href, ok := a.Attr("href"); ok {
			if ref, err := url.Parse(href); err == nil {
				entity.Link = base.ResolveReference(ref).String()
			}
		}
		out = append(out, entity)
	})
	return out, nil
}

// Merge appends fresh rows to the entities already stored at path and writes
// back the de-duplicated result.
func Merge(path string, fresh []Entity) error {
	existing := []Entity{}
	if snap, err := Load(path); err == nil {
		existing = snap.Entities()
	}
	merged := FromEntities(append(existing, fresh...))
	return Write(path, merged.Entities())
}
