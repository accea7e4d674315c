package model

import "time"

// Provider identifiers recorded on insights and drafts.
const (
	ProviderHeuristic = "heuristic"
)

// Insight is the structured intelligence derived for one email. At most one
// row exists per email uid. An insight is valid only while ContentHash
// matches the email's current content hash; a mismatch marks it stale.
type Insight struct {
	EmailUID      int64     `json:"email_uid"`
	Summary       string    `json:"summary"`
	ActionItems   []string  `json:"action_items"`
	PriorityScore int       `json:"priority_score"`
	Provider      string    `json:"provider"`
	GeneratedAt   time.Time `json:"generated_at"`
	UsedFallback  bool      `json:"used_fallback"`
	ContentHash   string    `json:"content_hash"`
}

// Stale reports whether the insight was generated against different content
// than the email currently carries.
func (i *Insight) Stale(currentHash string) bool {
	return i.ContentHash != currentHash
}

// Category is a label assigned to an email; many may exist per email and
// they are replaced wholesale on regeneration.
type Category struct {
	EmailUID int64  `json:"email_uid"`
	Key      string `json:"key"`
	Label    string `json:"label"`
}
