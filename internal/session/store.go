package session

import (
	"context"
	"errors"
)

// ErrDuplicateID reports an Add for an identifier already in the store.
// Random id generation makes this unreachable in practice, but it is
// checked regardless.
var ErrDuplicateID = errors.New("session: duplicate session id")

// Store is the process-wide registry of active sessions, shared by all
// connections. Implementations must be safe under concurrent use.
type Store interface {
	// Add inserts a session, failing with ErrDuplicateID if the id exists.
	Add(ctx context.Context, s *Session) error

	// Find resolves an identifier to its session, returning nil when the
	// id is absent or blank.
	Find(ctx context.Context, id string) (*Session, error)

	// FindSessionIDForUser returns the id of a live session already
	// carrying the named account, or empty when there is none. Used to
	// avoid duplicate sessions on repeated logins.
	FindSessionIDForUser(ctx context.Context, account string) (string, error)

	// Invalidate clears the session's attributes. The id stays resolvable
	// to an empty session; entries are never removed, a known
	// resource-growth limitation.
	Invalidate(ctx context.Context, id string) error
}
