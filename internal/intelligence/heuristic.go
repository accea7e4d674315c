package intelligence

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"inboxiq/internal/fingerprint"
	"inboxiq/internal/model"
)

const (
	maxSummaryLen      = 500
	maxSummarySegments = 3
	maxActionItems     = 5
	noSummary          = "No summary available."
)

var (
	actionPrefixes = []string{"please", "todo", "action", "kindly"}
	actionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\burgent\b`),
		regexp.MustCompile(`(?i)\basap\b`),
		regexp.MustCompile(`(?i)\baction required\b`),
		regexp.MustCompile(`(?i)\bplease\b`),
	}
	spaceRegex = regexp.MustCompile(`\s+`)
)

// HeuristicProvider is the deterministic, network-free Provider variant.
// It never fails: every email yields a summary, action items and a
// templated reply.
type HeuristicProvider struct {
	fp *fingerprint.Fingerprinter
}

func NewHeuristicProvider(fp *fingerprint.Fingerprinter) *HeuristicProvider {
	return &HeuristicProvider{fp: fp}
}

func (p *HeuristicProvider) Name() string {
	return model.ProviderHeuristic
}

// Analyze produces a sentence-extraction summary and keyword-detected
// action items. Priority and confidence are left unset; scoring is the
// caller's job.
func (p *HeuristicProvider) Analyze(_ context.Context, email *model.Email) (*Analysis, error) {
	body := p.fp.BodyText(email)

	summary := buildSummary(email.Subject, body)
	items := extractActionItems(body)

	return &Analysis{
		Summary:     summary,
		ActionItems: items,
	}, nil
}

// ComposeReply assembles a receipt-acknowledging template that restates the
// insight's action items. Confidence stays unset on the fallback path.
func (p *HeuristicProvider) ComposeReply(_ context.Context, email *model.Email, insight *model.Insight, prefs map[string]string) (*DraftReply, error) {
	name := "there"
	if email.Sender != "" {
		name = strings.SplitN(email.Sender, "@", 2)[0]
	}
	subject := email.Subject
	if subject == "" {
		subject = "your message"
	}

	lines := []string{
		fmt.Sprintf("Hi %s,", name),
		"",
		fmt.Sprintf("Thanks for reaching out about %s.", subject),
		insight.Summary,
	}
	if len(insight.ActionItems) > 0 {
		lines = append(lines, "", "Next steps:")
		for i, item := range insight.ActionItems {
			if i == 3 {
				break
			}
			lines = append(lines, "- "+item)
		}
	}

	signature := prefs["signature"]
	if signature == "" {
		signature = "Best regards"
	}
	lines = append(lines, "", signature)

	return &DraftReply{Body: strings.Join(lines, "\n")}, nil
}

func buildSummary(subject, body string) string {
	var segments []string
	if s := strings.TrimSpace(subject); s != "" {
		segments = append(segments, s)
	}
	for _, line := range strings.Split(body, "\n") {
		if len(segments) >= maxSummarySegments {
			break
		}
		if cleaned := strings.TrimSpace(line); cleaned != "" {
			segments = append(segments, cleaned)
		}
	}

	summary := strings.TrimSpace(strings.Join(segments, " "))
	if summary == "" {
		return noSummary
	}
	// Cap counts runes, not bytes, so multi-byte text is never cut
	// mid-character.
	if utf8.RuneCountInString(summary) > maxSummaryLen {
		summary = string([]rune(summary)[:maxSummaryLen])
	}
	return summary
}

func extractActionItems(body string) []string {
	var items []string
	for _, line := range strings.Split(body, "\n") {
		cleaned := strings.TrimSpace(line)
		if cleaned == "" {
			continue
		}
		if isActionLine(cleaned) {
			items = append(items, spaceRegex.ReplaceAllString(cleaned, " "))
			if len(items) >= maxActionItems {
				break
			}
		}
	}
	return items
}

func isActionLine(line string) bool {
	lowered := strings.ToLower(line)
	for _, prefix := range actionPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	for _, pattern := range actionPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}
