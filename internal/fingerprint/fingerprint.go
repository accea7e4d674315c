// Package fingerprint computes stable digests of normalized email content.
// The digest is a cache-validity key only, never an identity or security
// primitive.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"inboxiq/internal/model"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Fingerprinter derives content hashes from subject + body.
type Fingerprinter struct {
	html *HTMLNormalizer
}

func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{html: NewHTMLNormalizer()}
}

// Hash returns a hex-encoded SHA-256 digest of the email's canonical text.
// Identical logical content always yields an identical digest.
func (f *Fingerprinter) Hash(email *model.Email) string {
	canonical := f.Canonicalize(email)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// Canonicalize builds the normalized subject+body text the digest is
// computed over. HTML-only bodies are reduced to plain text first so that
// markup-only changes do not churn the hash.
func (f *Fingerprinter) Canonicalize(email *model.Email) string {
	body := email.BodyText
	if strings.TrimSpace(body) == "" && email.BodyHTML != "" {
		if text, err := f.html.Normalize(email.BodyHTML); err == nil {
			body = text
		}
	}

	subject := normalizeText(email.Subject)
	body = normalizeText(body)
	return subject + "\n" + body
}

// BodyText returns the plain-text body, extracting it from HTML when the
// email carries no text part. Used by the fallback summarizer as well.
func (f *Fingerprinter) BodyText(email *model.Email) string {
	if strings.TrimSpace(email.BodyText) != "" {
		return email.BodyText
	}
	if email.BodyHTML != "" {
		if text, err := f.html.Normalize(email.BodyHTML); err == nil {
			return text
		}
	}
	return ""
}

func normalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespaceRegex.ReplaceAllString(s, " ")
}
