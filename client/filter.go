package client

import "strings"

// Filter selects credentials from an already-fetched collection. Each
// predicate is independent: setting one never changes what another matches.
// Zero values mean "no constraint".
type Filter struct {
	Search            string // substring across player name, credential number, verification code
	AffiliationStatus string
	StateAffiliation  string
	IsVerified        *bool // verified at least once
}

// Match reports whether every active predicate holds for the credential.
func (f Filter) Match(c Credential) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.PlayerName), needle) &&
			!strings.Contains(strings.ToLower(c.CredentialNumber), needle) &&
			!strings.Contains(strings.ToLower(c.VerificationCode), needle) {
			return false
		}
	}
	if f.AffiliationStatus != "" && c.AffiliationStatus != f.AffiliationStatus {
		return false
	}
	if f.StateAffiliation != "" {
		if c.StateAffiliation == nil || *c.StateAffiliation != f.StateAffiliation {
			return false
		}
	}
	if f.IsVerified != nil && (c.VerificationCount > 0) != *f.IsVerified {
		return false
	}
	return true
}

// Apply returns the credentials matching the filter, in input order.
func (f Filter) Apply(creds []Credential) []Credential {
	out := make([]Credential, 0, len(creds))
	for _, c := range creds {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// Paginate slices one page out of a collection. Pages are 1-based; a page
// beyond the end returns an empty slice.
func Paginate(creds []Credential, page, pageSize int) []Credential {
	if page < 1 || pageSize < 1 {
		return []Credential{}
	}
	start := (page - 1) * pageSize
	if start >= len(creds) {
		return []Credential{}
	}
	end := start + pageSize
	if end > len(creds) {
		end = len(creds)
	}
	return creds[start:end]
}
