// Package relevance scores feed items against configured keyword rules and
// selects the ones worth reporting.
package relevance

import (
	"sort"
	"strings"

	"updatewatch/internal/config"
	"updatewatch/internal/model"
)

// Score matches text against keyword rules and returns the accumulated
// result. Matching is a case-insensitive substring test. Each keyword counts
// once no matter how often it occurs, so repeated words cannot inflate the
// score. Absence of matches yields score 0 and empty sets; Score never
// fails.
func Score(text string, keywords map[string]config.KeywordRule) model.MatchResult {
	lower := strings.ToLower(text)

	var res model.MatchResult
	categories := make(map[string]struct{})
	for keyword, rule := range keywords {
		if !strings.Contains(lower, strings.ToLower(keyword)) {
			continue
		}
		weight := rule.Weight
		if weight == 0 {
			weight = 1
		}
		res.Score += weight
		res.Keywords = append(res.Keywords, keyword)
		if rule.Category != "" {
			categories[rule.Category] = struct{}{}
		}
	}

	sort.Strings(res.Keywords)
	for category := range categories {
		res.Categories = append(res.Categories, category)
	}
	sort.Strings(res.Categories)
	return res
}

// Filter scores each item's combined title and description and keeps those
// at or above the effective threshold, ordered by descending score. Ties
// keep their original encounter order. A thresholdOverride of zero or less
// means the report default applies.
func Filter(items []model.FeedItem, rc *config.ReportConfig, thresholdOverride int) []model.RelevantItem {
	threshold := rc.Threshold
	if thresholdOverride > 0 {
		threshold = thresholdOverride
	}

	var relevant []model.RelevantItem
	for _, item := range items {
		match := Score(item.Title+" "+item.Description, rc.Keywords)
		if match.Score >= threshold {
			relevant = append(relevant, model.RelevantItem{Item: item, Match: match})
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Match.Score > relevant[j].Match.Score
	})
	return relevant
}
