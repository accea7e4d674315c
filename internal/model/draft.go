package model

import "time"

// Draft is a reply draft for one email. Regeneration replaces body,
// provider and generated_at in place. SentAt is set once by the external
// send action and never cleared.
type Draft struct {
	ID           int64      `json:"id"`
	EmailUID     int64      `json:"email_uid"`
	Body         string     `json:"body"`
	Provider     string     `json:"provider"`
	GeneratedAt  time.Time  `json:"generated_at"`
	Confidence   *float64   `json:"confidence,omitempty"`
	UsedFallback bool       `json:"used_fallback"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
}

// UserPreference influences generation prompts and fallback templates.
type UserPreference struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
