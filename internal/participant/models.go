package participant

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Participant is a person who attends events. Identity key precedence: CNI
// number when present, else normalized email. Two records must never coexist
// with the same non-null identity key.
type Participant struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	CNINumber      string    `json:"cniNumber,omitempty"`
	Organization   string    `json:"organization,omitempty"`
	Function       string    `json:"function,omitempty"`
	OriginLocality string    `json:"originLocality,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// IdentityKeys returns the normalized dedup keys, empty when absent.
func (p *Participant) IdentityKeys() (cni, email string) {
	return NormalizeCNI(p.CNINumber), NormalizeEmail(p.Email)
}

// NormalizeCNI strips all whitespace and uppercases, so "ab12cd34" and
// " AB12CD34 " compare equal.
func NormalizeCNI(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ValidCNI reports whether a normalized CNI is 8-20 alphanumeric characters.
func ValidCNI(normalized string) bool {
	if len(normalized) < 8 || len(normalized) > 20 {
		return false
	}
	for _, r := range normalized {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// NormalizeEmail lowercases and trims surrounding whitespace.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
