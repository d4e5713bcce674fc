// Package auth implements the allow-list gate consulted before any command
// is processed.
package auth

// Gate authorizes user identities against a static allow-list loaded once at
// startup. It is stateless; unauthorized users cause no state mutation.
type Gate struct {
	allowed map[int64]struct{}
}

func NewGate(userIDs []int64) *Gate {
	allowed := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		allowed[id] = struct{}{}
	}
	return &Gate{allowed: allowed}
}

// IsAuthorized reports whether the user may use the system.
func (g *Gate) IsAuthorized(userID int64) bool {
	_, ok := g.allowed[userID]
	return ok
}

// Size returns the number of authorized users.
func (g *Gate) Size() int { return len(g.allowed) }
