// Package aggregate groups relevant items by category and renders the
// tracking issue content for each group.
package aggregate

import (
	"fmt"
	"slices"
	"strings"

	"updatewatch/internal/config"
	"updatewatch/internal/model"
)

const (
	// descriptionBudget caps per-item description length in issue bodies.
	descriptionBudget = 300
	// maxSummaryKeywords caps the keyword list in the summary block.
	maxSummaryKeywords = 20
)

// Group buckets relevant items by source category. Group order follows the
// first appearance of each category; item order within a group is preserved.
func Group(items []model.RelevantItem) []model.IssueGroup {
	index := make(map[string]int)
	var groups []model.IssueGroup
	for _, item := range items {
		category := item.Item.Category
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, model.IssueGroup{Category: category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// Title renders the issue title for a group on a given run date. The title
// carries the category prefix and the date; together they form the upsert
// identity for the day's issue.
func Title(group model.IssueGroup, rc *config.ReportConfig, runDate string) string {
	return fmt.Sprintf("%s %d update(s) - %s", rc.TitlePrefix(group.Category), len(group.Items), runDate)
}

// Body renders the issue body: a summary block followed by one entry per
// item in input order.
func Body(group model.IssueGroup) string {
	var b strings.Builder

	topScore := 0
	for _, item := range group.Items {
		if item.Match.Score > topScore {
			topScore = item.Match.Score
		}
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Category: %s\n", group.Category)
	fmt.Fprintf(&b, "- Updates: %d\n", len(group.Items))
	fmt.Fprintf(&b, "- Top score: %d\n", topScore)
	fmt.Fprintf(&b, "- Keywords: %s\n", keywordSummary(group))
	b.WriteString("\n")

	for _, item := range group.Items {
		fmt.Fprintf(&b, "### [%s](%s)\n\n", item.Item.Title, item.Item.Link)
		fmt.Fprintf(&b, "- Source: %s\n", item.Item.SourceName)
		fmt.Fprintf(&b, "- Score: %d\n", item.Match.Score)
		fmt.Fprintf(&b, "- Published: %s\n", item.Item.Published.Format("2006-01-02 15:04 UTC"))
		if desc := truncate(item.Item.Description, descriptionBudget); desc != "" {
			b.WriteString("\n")
			b.WriteString(desc)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// keywordSummary lists the distinct matched keywords across the group in
// first-seen order, capped with an overflow counter.
func keywordSummary(group model.IssueGroup) string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, item := range group.Items {
		for _, kw := range item.Match.Keywords {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return "none"
	}
	if len(keywords) <= maxSummaryKeywords {
		return strings.Join(keywords, ", ")
	}
	overflow := len(keywords) - maxSummaryKeywords
	return fmt.Sprintf("%s (+%d more)", strings.Join(keywords[:maxSummaryKeywords], ", "), overflow)
}

// Labels derives the label set for a group: the configured base labels, the
// category's mapped label if one exists, and any conditional label whose
// category was matched by at least one item in the group.
func Labels(group model.IssueGroup, rc *config.ReportConfig) []string {
	labels := slices.Clone(rc.Labels.Base)
	if label, ok := rc.Labels.ByCategory[group.Category]; ok {
		labels = append(labels, label)
	}
	for _, category := range rc.Labels.Conditional {
		if !groupMatched(group, category) {
			continue
		}
		if !slices.Contains(labels, category) {
			labels = append(labels, category)
		}
	}
	return labels
}

func groupMatched(group model.IssueGroup, category string) bool {
	for _, item := range group.Items {
		if slices.Contains(item.Match.Categories, category) {
			return true
		}
	}
	return false
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
