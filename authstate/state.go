package authstate

import "github.com/xy-planning-network/artmatch"

// State is a snapshot of a Store.
type State struct {
	User      *artmatch.User `json:"user"`
	IsLoading bool           `json:"isLoading"`

	// Error is why the last Initialize failed, if it did.
	Error string `json:"error,omitempty"`
}

// IsAuthenticated asserts whether a user is cached.
func (s State) IsAuthenticated() bool { return s.User != nil }
