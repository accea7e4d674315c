package intelligence

import (
	"strings"

	"inboxiq/internal/model"
)

const maxCategoriesPerEmail = 3

type categoryRule struct {
	key      string
	label    string
	keywords []string
	match    func(email *model.Email, insight *model.Insight) bool
}

var categoryRules = []categoryRule{
	{
		key:   "high_priority",
		label: "High Priority",
		match: func(_ *model.Email, insight *model.Insight) bool {
			return insight != nil && insight.PriorityScore >= 8
		},
	},
	{
		key:      "meeting",
		label:    "Meetings",
		keywords: []string{"meeting", "calendar", "schedule", "invite", "call", "zoom", "webex", "sync"},
	},
	{
		key:      "billing",
		label:    "Billing & Payments",
		keywords: []string{"invoice", "payment", "receipt", "bill", "billing", "charge", "refund", "subscription"},
	},
	{
		key:      "follow_up",
		label:    "Follow Up",
		keywords: []string{"follow up", "follow-up", "check in", "checking in", "reminder", "ping"},
	},
	{
		key:      "sales",
		label:    "Sales & Deals",
		keywords: []string{"proposal", "quote", "pricing", "contract", "renewal", "deal", "discount"},
	},
	{
		key:      "support",
		label:    "Support Request",
		keywords: []string{"support", "issue", "bug", "error", "trouble", "incident", "ticket"},
	},
	{
		key:      "travel",
		label:    "Travel",
		keywords: []string{"flight", "hotel", "booking", "reservation", "itinerary", "travel", "boarding", "airline"},
	},
	{
		key:      "recruiting",
		label:    "Hiring & People",
		keywords: []string{"candidate", "interview", "resume", "cv", "onboarding", "offer", "payroll"},
	},
	{
		key:   "attachments",
		label: "Has Attachments",
		match: func(email *model.Email, _ *model.Insight) bool {
			return len(email.Attachments) > 0
		},
	},
}

// Categorizer assigns keyword-rule categories to emails.
type Categorizer struct{}

func NewCategorizer() *Categorizer {
	return &Categorizer{}
}

// Categorize returns up to three matching categories, falling back to a
// catch-all "general" label when nothing matches.
func (c *Categorizer) Categorize(email *model.Email, insight *model.Insight) []model.Category {
	haystack := buildHaystack(email, insight)

	var selected []model.Category
	for _, rule := range categoryRules {
		if len(selected) >= maxCategoriesPerEmail {
			break
		}
		if ruleMatches(rule, email, insight, haystack) {
			selected = append(selected, model.Category{
				EmailUID: email.UID,
				Key:      rule.key,
				Label:    rule.label,
			})
		}
	}

	if len(selected) == 0 {
		selected = append(selected, model.Category{
			EmailUID: email.UID,
			Key:      "general",
			Label:    "General",
		})
	}
	return selected
}

func ruleMatches(rule categoryRule, email *model.Email, insight *model.Insight, haystack string) bool {
	for _, kw := range rule.keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	if rule.match != nil {
		return rule.match(email, insight)
	}
	return false
}

func buildHaystack(email *model.Email, insight *model.Insight) string {
	parts := []string{email.Subject, email.BodyText, email.BodyHTML}
	if insight != nil {
		parts = append(parts, insight.Summary)
		parts = append(parts, insight.ActionItems...)
	}
	return strings.ToLower(strings.Join(parts, " "))
}
