package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestPreferTextFallsBackToTitle(t *testing.T) {
	t.Parallel()

	doc := docFromHTML(t, `<span title="FC Barcelona">   </span>`)
	assert.Equal(t, "FC Barcelona", PreferText(doc.Find("span")))
}

func TestPreferTextUsesTextFirst(t *testing.T) {
	t.Parallel()

	doc := docFromHTML(t, `<span title="ES"> Spain </span>`)
	assert.Equal(t, "Spain", PreferText(doc.Find("span")))
}

func TestPreferTitleUsesTitleFirst(t *testing.T) {
	t.Parallel()

	doc := docFromHTML(t, `<span title="ES"> Spain </span>`)
	assert.Equal(t, "ES", PreferTitle(doc.Find("span")))
}

func TestPreferTitleFallsBackToText(t *testing.T) {
	t.Parallel()

	doc := docFromHTML(t, `<span> Spain </span>`)
	assert.Equal(t, "Spain", PreferTitle(doc.Find("span")))
}

func TestPreferTextEmptyBothWays(t *testing.T) {
	t.Parallel()

	doc := docFromHTML(t, `<span title="  "></span>`)
	assert.Equal(t, "", PreferText(doc.Find("span")))
}

func TestPreferTextNormalizesCompatibilityForms(t *testing.T) {
	t.Parallel()

	// U+FF26 U+FF23 are fullwidth F and C; NFKC folds them to ASCII.
	doc := docFromHTML(t, "<span>ＦＣ Porto</span>")
	assert.Equal(t, "FC Porto", PreferText(doc.Find("span")))
}

func TestImageSourceFallsBackToSrc(t *testing.T) {
	t.Parallel()

	doc := docFromHTML(t, `<img src="https://img/crest.png">`)
	assert.Equal(t, "https://img/crest.png", ImageSource(doc.Find("img")))
}

func TestExtractFieldsOmitsMissingOptional(t *testing.T) {
	t.Parallel()

	doc := docFromHTML(t, `<div><p class="headline">Title</p></div>`)
	fields, err := ExtractFields(doc.Find("div"), map[string]FieldSpec{
		"title":   {Selector: ".headline", Source: SourceText, Required: true},
		"summary": {Selector: ".summary", Source: SourceText},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"title": "Title"}, fields)
}

func TestExtractFieldsRequiredMissing(t *testing.T) {
	t.Parallel()

	doc := docFromHTML(t, `<div><p class="summary">text</p></div>`)
	_, err := ExtractFields(doc.Find("div"), map[string]FieldSpec{
		"title": {Selector: ".headline", Source: SourceText, Required: true},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequiredField)
}

func TestExtractFieldsAttrSource(t *testing.T) {
	t.Parallel()

	doc := docFromHTML(t, `<div><a class="more" href="/news/1">more</a></div>`)
	fields, err := ExtractFields(doc.Find("div"), map[string]FieldSpec{
		"link": {Selector: "a.more", Source: SourceAttr, Attr: "href", Required: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "/news/1", fields["link"])
}
