package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const candidatesHTML = `
<body>
<div class="box">
  <h2 class="content-box-headline">Search results: Clubs</h2>
  <div class="responsive-table"><div><table>
    <thead><tr><th>Club</th><th>Country</th></tr></thead>
    <tbody>
      <tr>
        <td class="zentriert suche-vereinswappen"><img src="https://img.example/arsenal.png"></td>
        <td class="hauptlink"><a href="/arsenal-fc/startseite/verein/11">Arsenal FC</a></td>
      </tr>
      <tr>
        <td class="zentriert suche-vereinswappen"><img src="https://img.example/chelsea.png"></td>
        <td class="hauptlink"><a href="/chelsea-fc/startseite/verein/631">Chelsea FC</a></td>
      </tr>
      <tr>
        <td class="zentriert suche-vereinswappen"><img src="https://img.example/orphan.png"></td>
        <td>No link here</td>
      </tr>
    </tbody>
  </table></div></div>
</div>
<div class="box">
  <h2 class="content-box-headline">Search results for players</h2>
  <div class="responsive-table"><div><table>
    <tbody>
      <tr>
        <td class="hauptlink"><a href="/bukayo-saka/profil/spieler/433177">Bukayo Saka</a></td>
      </tr>
    </tbody>
  </table></div></div>
</div>
</body>`

func TestCandidatesClubs(t *testing.T) {
	t.Parallel()

	s := newTestScraper(t)
	doc := docFromHTML(t, candidatesHTML)

	clubs := s.Candidates(doc, "clubs")
	require.Len(t, clubs, 2)
	assert.Equal(t, Candidate{Name: "Arsenal FC", Image: "https://img.example/arsenal.png", ID: "11"}, clubs[0])
	assert.Equal(t, "631", clubs[1].ID)
}

func TestCandidatesPlayers(t *testing.T) {
	t.Parallel()

	s := newTestScraper(t)
	doc := docFromHTML(t, candidatesHTML)

	players := s.Candidates(doc, "players")
	require.Len(t, players, 1)
	assert.Equal(t, "Bukayo Saka", players[0].Name)
	assert.Equal(t, "433177", players[0].ID)
	assert.Empty(t, players[0].Image)
}

func TestCandidatesUnknownCategory(t *testing.T) {
	t.Parallel()

	s := newTestScraper(t)
	doc := docFromHTML(t, candidatesHTML)

	assert.Empty(t, s.Candidates(doc, "referees"))
}
