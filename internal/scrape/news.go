package scrape

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/minhqn/footfeed/internal/metrics"
)

// newsFields drive the generic extractor for one article block.
var newsFields = map[string]FieldSpec{
	"title":   {Selector: ".article-title", Source: SourceText, Required: true},
	"link":    {Selector: ".article-image>a", Source: SourceAttr, Attr: "href", Required: true},
	"summary": {Selector: ".article-summary", Source: SourceText},
	"time":    {Selector: ".tags-time", Source: SourceText},
}

// News extracts the article listing from a club page. Articles missing a
// title or link are dropped individually; summary and published time default
// to absent.
func (s *Scraper) News(doc *goquery.Document, pageURL string) []NewsItem {
	base, err := url.Parse(pageURL)
	if err != nil {
		s.logger.Warn("bad news page url", zap.String("url", pageURL), zap.Error(err))
		base = nil
	}

	var items []NewsItem
	doc.Find("article.post-list, article.article-list").Each(func(_ int, article *goquery.Selection) {
		fields, err := ExtractFields(article, newsFields)
		if err != nil {
			metrics.ObserveDroppedRecord("news")
			s.logger.Warn("news article missing mandatory field, dropping record", zap.Error(err))
			return
		}

		link := fields["link"]
		if base != nil {
			if ref, err := url.Parse(link); err == nil {
				link = base.ResolveReference(ref).String()
			}
		}

		item := NewsItem{Link: link, Title: fields["title"]}
		if summary, ok := fields["summary"]; ok {
			item.Summary = &summary
		}
		if published, ok := fields["time"]; ok {
			item.Published = &published
		}
		items = append(items, item)
	})

	metrics.ObserveRecords("news", len(items))
	return items
}
