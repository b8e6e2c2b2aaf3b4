// Package scrape turns fetched documents and JSON payloads into domain
// records using tolerant, fallback-aware field extraction.
package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// Source selects the fallback order when extracting a field's text.
type Source int

const (
	// SourceText prefers element text, falling back to the title attribute.
	SourceText Source = iota
	// SourceTitle prefers the title attribute, falling back to element text.
	SourceTitle
	// SourceAttr reads a named attribute verbatim.
	SourceAttr
)

// FieldSpec declares where one record field comes from. Record shapes are
// described as a set of named FieldSpecs and evaluated by ExtractFields, so
// new shapes are configuration rather than new control flow.
type FieldSpec struct {
	Selector string
	Source   Source
	Attr     string
	Required bool
}

// ErrRequiredField is wrapped by ExtractFields when a required field's
// selector finds nothing; the caller drops that single record.
var ErrRequiredField = fmt.Errorf("required field missing")

// ExtractFields evaluates specs against sel. Missing optional fields are
// omitted from the result.
func ExtractFields(sel *goquery.Selection, specs map[string]FieldSpec) (map[string]string, error) {
	out := make(map[string]string, len(specs))
	for name, spec := range specs {
		target := sel.Find(spec.Selector).First()
		var value string
		switch spec.Source {
		case SourceTitle:
			value = PreferTitle(target)
		case SourceAttr:
			value = normalizeText(target.AttrOr(spec.Attr, ""))
		default:
			value = PreferText(target)
		}
		if value == "" {
			if spec.Required {
				return nil, fmt.Errorf("%w: %s", ErrRequiredField, name)
			}
			continue
		}
		out[name] = value
	}
	return out, nil
}

// PreferText returns the element text, falling back to its title attribute
// when the text is empty. The result is NFKC-normalized and trimmed; an empty
// string means neither source had content.
func PreferText(sel *goquery.Selection) string {
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		text = sel.AttrOr("title", "")
	}
	return normalizeText(text)
}

// PreferTitle returns the title attribute when present and non-empty,
// falling back to element text.
func PreferTitle(sel *goquery.Selection) string {
	text := sel.AttrOr("title", "")
	if strings.TrimSpace(text) == "" {
		text = sel.Text()
	}
	return normalizeText(text)
}

// ImageSource returns the element text, falling back to its src attribute.
// Upstream uses label text where available and the image URL otherwise.
func ImageSource(sel *goquery.Selection) string {
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		text = sel.AttrOr("src", "")
	}
	return normalizeText(text)
}

func normalizeText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(norm.NFKC.String(s))
}
