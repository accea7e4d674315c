package intelligence

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"inboxiq/internal/model"
)

// SchedulerConfig holds the due-date heuristics.
type SchedulerConfig struct {
	DefaultDueDays    int
	PriorityDueDays   int
	PriorityThreshold int
	UrgentDueWindow   time.Duration
}

// Scheduler derives follow-up tasks from an insight's action items.
type Scheduler struct {
	cfg SchedulerConfig
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	return &Scheduler{cfg: cfg}
}

var (
	urgencyKeywords = []string{"today", "asap", "urgent"}

	isoDateRegex = regexp.MustCompile(`\b(20\d{2})-(\d{2})-(\d{2})\b`)
	// month-name dates like "by Jan 5" or "September 15th"
	monthDayRegex = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)

	monthIndex = map[string]time.Month{
		"jan": time.January, "feb": time.February, "mar": time.March,
		"apr": time.April, "may": time.May, "jun": time.June,
		"jul": time.July, "aug": time.August, "sep": time.September,
		"oct": time.October, "nov": time.November, "dec": time.December,
	}
)

// Derive returns one open follow-up per distinct action item. Duplicate
// items (case-insensitive) collapse to the first occurrence.
func (s *Scheduler) Derive(email *model.Email, insight *model.Insight, now time.Time) []model.FollowUp {
	var tasks []model.FollowUp
	seen := make(map[string]struct{})

	for _, raw := range insight.ActionItems {
		action := strings.TrimSpace(raw)
		if action == "" {
			continue
		}
		lowered := strings.ToLower(action)
		if _, dup := seen[lowered]; dup {
			continue
		}
		seen[lowered] = struct{}{}

		due := s.estimateDueAt(action, insight.PriorityScore, email.ReceivedAt)
		tasks = append(tasks, model.FollowUp{
			EmailUID:  email.UID,
			Action:    action,
			DueAt:     &due,
			Status:    model.FollowUpStatusOpen,
			CreatedAt: now,
		})
	}
	return tasks
}

// estimateDueAt picks a due date relative to when the email arrived.
// Precedence: explicit date in the action text, urgency keyword, relative
// phrase, priority-based tightening, configured default.
func (s *Scheduler) estimateDueAt(action string, priorityScore int, receivedAt time.Time) time.Time {
	if explicit, ok := parseExplicitDate(action, receivedAt); ok {
		return explicit
	}

	text := strings.ToLower(action)
	for _, kw := range urgencyKeywords {
		if strings.Contains(text, kw) {
			return receivedAt.Add(s.cfg.UrgentDueWindow)
		}
	}

	switch {
	case strings.Contains(text, "tomorrow"):
		return receivedAt.AddDate(0, 0, 1)
	case strings.Contains(text, "next week"):
		return receivedAt.AddDate(0, 0, 7)
	case strings.Contains(text, "next month"):
		return receivedAt.AddDate(0, 0, 30)
	}

	days := s.cfg.DefaultDueDays
	if priorityScore >= s.cfg.PriorityThreshold {
		days = s.cfg.PriorityDueDays
	}
	return receivedAt.AddDate(0, 0, days)
}

// parseExplicitDate recognizes only unambiguous forms: ISO dates and
// month-name + day. Numeric forms like "5/6" stay ambiguous and are
// ignored.
func parseExplicitDate(action string, receivedAt time.Time) (time.Time, bool) {
	if m := isoDateRegex.FindStringSubmatch(action); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 17, 0, 0, 0, receivedAt.Location()), true
		}
	}

	if m := monthDayRegex.FindStringSubmatch(action); m != nil {
		month := monthIndex[strings.ToLower(m[1])]
		day, _ := strconv.Atoi(m[2])
		if day >= 1 && day <= 31 {
			due := time.Date(receivedAt.Year(), month, day, 17, 0, 0, 0, receivedAt.Location())
			// a date already behind the email rolls into next year
			if due.Before(receivedAt) {
				due = due.AddDate(1, 0, 0)
			}
			return due, true
		}
	}

	return time.Time{}, false
}
