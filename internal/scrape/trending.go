package scrape

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// trendingGuard is the anti-hijacking prefix the trends endpoint prepends to
// its JSON body.
const trendingGuard = ")]}',"

// ParseTrending strips the guard prefix from a trends payload and returns
// the raw trending-searches-days value.
func ParseTrending(payload string) (json.RawMessage, error) {
	trimmed := strings.TrimPrefix(payload, trendingGuard)
	trimmed = strings.TrimLeft(trimmed, "\r\n \t")

	var envelope struct {
		Default struct {
			TrendingSearchesDays json.RawMessage `json:"trendingSearchesDays"`
		} `json:"default"`
	}
	if err := sonic.Unmarshal([]byte(trimmed), &envelope); err != nil {
		return nil, fmt.Errorf("decode trending payload: %w", err)
	}
	if len(envelope.Default.TrendingSearchesDays) == 0 {
		return nil, fmt.Errorf("trending payload missing trendingSearchesDays")
	}
	return envelope.Default.TrendingSearchesDays, nil
}
