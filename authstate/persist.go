package authstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/storage"
)

// KeyPrefix prefixes the storage key a Store persists its user under.
const KeyPrefix = "artmatch-auth:"

// persisted is the part of State written to storage.
type persisted struct {
	User *artmatch.User `json:"user"`
}

func key(sid string) string { return KeyPrefix + sid }

func save(ctx context.Context, s storage.Storage, sid string, u *artmatch.User) error {
	b, err := json.Marshal(persisted{User: u})
	if err != nil {
		return fmt.Errorf("%w: encoding user: %s", artmatch.ErrUnexpected, err)
	}

	return s.Set(ctx, key(sid), b)
}

// load returns the persisted user, or nil if none was.
// Unreadable values are reported with artmatch.ErrNotValid.
func load(ctx context.Context, s storage.Storage, sid string) (*artmatch.User, error) {
	b, err := s.Get(ctx, key(sid))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var p persisted
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("%w: %s", artmatch.ErrNotValid, err)
	}

	return p.User, nil
}
