// internal/models/user.go
package models

// Principal is the authenticated actor behind a mutating request. Users live
// in the identity provider; the catalog only ever sees this reference.
type Principal struct {
	ID   uint64 `json:"id"`
	Role Role   `json:"role"`
}

func (p Principal) Is(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
