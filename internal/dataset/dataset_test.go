package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/minhqn/footfeed/internal/fetch"
)

func TestLoadDeduplicatesByName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "clubs.csv")
	csv := `club_name,club_logo,club_link,league
Arsenal,https://img/arsenal.png,https://site/arsenal,Premier League
Chelsea,https://img/chelsea.png,https://site/chelsea,Premier League
Arsenal,https://img/arsenal2.png,https://site/arsenal2,La Liga
`
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())

	arsenal, ok := snap.Get("Arsenal")
	require.True(t, ok)
	// First occurrence wins.
	assert.Equal(t, "Premier League", arsenal.Category)
	assert.Equal(t, "https://site/arsenal", arsenal.Link)

	assert.Equal(t, []string{"Arsenal", "Chelsea"}, snap.Names())
}

func TestFromEntitiesSkipsEmptyNames(t *testing.T) {
	t.Parallel()

	snap := FromEntities([]Entity{
		{Name: "", Link: "https://nowhere"},
		{Name: "Spain", Category: WorldCupCategory},
	})
	assert.Equal(t, 1, snap.Len())
	_, ok := snap.Get("")
	assert.False(t, ok)
}

func TestWriteRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "clubs.csv")
	rows := []Entity{
		{Name: "Arsenal", Logo: "l", Link: "u", Category: "Premier League"},
		{Name: "Brazil", Category: WorldCupCategory},
	}
	require.NoError(t, Write(path, rows))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	brazil, ok := snap.Get("Brazil")
	require.True(t, ok)
	assert.Equal(t, WorldCupCategory, brazil.Category)
}

func TestMergeKeepsExistingRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "clubs.csv")
	require.NoError(t, Write(path, []Entity{
		{Name: "Arsenal", Category: "Premier League"},
	}))

	require.NoError(t, Merge(path, []Entity{
		{Name: "Arsenal", Category: "Duplicate"},
		{Name: "Chelsea", Category: "Premier League"},
	}))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	arsenal, _ := snap.Get("Arsenal")
	assert.Equal(t, "Premier League", arsenal.Category)
}

func TestHarvesterCollectsClubsAndCountries(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/standings", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="nav-score">
			<a href="/league-1">League One</a>
		</div></body></html>`))
	})
	mux.HandleFunc("/league-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<div class="nav-score"><a class="active" href="/league-1"> Premier League </a></div>
			<a class="link-clb" href="/arsenal"><img alt="Arsenal" src="/img/arsenal.png"></a>
			<a class="link-clb" href="/chelsea"><img alt="Chelsea" src="/img/chelsea.png"></a>
		</body></html>`))
	})
	mux.HandleFunc("/fifa", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><section class="section calc">
			<div class="fifa-text"><a href="/brazil"> Brazil </a></div>
			<div class="fifa-text"><a href="/spain">Spain</a></div>
		</section></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher, err := fetch.New(fetch.Config{UserAgent: "test", Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	h := NewHarvester(fetcher, HarvesterConfig{
		StandingsURL:   server.URL + "/standings",
		FIFARankingURL: server.URL + "/fifa",
		BaseURL:        server.URL + "/",
	}, zap.NewNop())

	links, err := h.LeagueLinks(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{server.URL + "/league-1"}, links)

	clubs, err := h.HarvestClubs(context.Background(), links)
	require.NoError(t, err)
	require.Len(t, clubs, 2)
	assert.Equal(t, "Arsenal", clubs[0].Name)
	assert.Equal(t, "Premier League", clubs[0].Category)
	assert.Equal(t, server.URL+"/arsenal", clubs[0].Link)

	countries, err := h.HarvestCountries(context.Background())
	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, "Brazil", countries[0].Name)
	assert.Equal(t, WorldCupCategory, countries[0].Category)
	assert.Equal(t, server.URL+"/brazil", countries[0].Link)
}
