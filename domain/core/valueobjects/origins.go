package valueobjects

import "fmt"

// OriginWildcard allows every origin.
const OriginWildcard = "*"

// AllowedOrigins is the set of origins permitted to embed a component.
// The invariant that the set is non-empty is enforced at construction.
type AllowedOrigins struct {
	origins []string
}

// NewAllowedOrigins creates an origin allow-list. At least one origin is
// required; a component nobody may embed is a definition bug.
func NewAllowedOrigins(origins []string) (AllowedOrigins, error) {
	if len(origins) == 0 {
		return AllowedOrigins{}, fmt.Errorf("allowedOrigins must not be empty")
	}
	for _, origin := range origins {
		if origin == "" {
			return AllowedOrigins{}, fmt.Errorf("allowedOrigins must not contain empty entries")
		}
	}
	copied := make([]string, len(origins))
	copy(copied, origins)
	return AllowedOrigins{origins: copied}, nil
}

// Allows reports whether the origin is permitted, either by the wildcard or
// by an exact match.
func (a AllowedOrigins) Allows(origin string) bool {
	for _, allowed := range a.origins {
		if allowed == OriginWildcard || allowed == origin {
			return true
		}
	}
	return false
}

// IsWildcard reports whether the set contains the wildcard entry.
func (a AllowedOrigins) IsWildcard() bool {
	for _, allowed := range a.origins {
		if allowed == OriginWildcard {
			return true
		}
	}
	return false
}

// Values returns a copy of the origin list.
func (a AllowedOrigins) Values() []string {
	copied := make([]string, len(a.origins))
	copy(copied, a.origins)
	return copied
}
