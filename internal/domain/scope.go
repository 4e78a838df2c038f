package domain

// Caller is the authenticated identity resolved from the request.
type Caller struct {
	ID        int64
	Email     string
	Staff     bool
	Superuser bool
}

func (c Caller) Privileged() bool {
	return c.Staff || c.Superuser
}

// Scope is the visibility predicate applied to booking and payment
// queries. It is computed once per request instead of branching at
// every call site.
type Scope struct {
	All     bool
	GuestID int64
}

func ScopeFor(c Caller) Scope {
	if c.Privileged() {
		return Scope{All: true}
	}
	return Scope{GuestID: c.ID}
}

// Allows reports whether a record owned by guestID is visible.
func (s Scope) Allows(guestID int64) bool {
	return s.All || s.GuestID == guestID
}
