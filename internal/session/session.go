package session

import "sync"

// UserAttribute is the attribute name under which the authenticated user
// record is stored.
const UserAttribute = "user"

// Principal identifies the authenticated owner of a session. Attribute
// values implementing it make the session discoverable by account name.
type Principal interface {
	PrincipalName() string
}

// Session is a server-side record of authenticated state, addressed by an
// opaque identifier carried in a cookie. Attribute access is safe under
// concurrent use.
type Session struct {
	id string

	mu    sync.RWMutex
	attrs map[string]any
}

func New(id string) *Session {
	return &Session{
		id:    id,
		attrs: make(map[string]any),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Attribute(name string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attrs[name]
}

func (s *Session) SetAttribute(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs[name] = value
}

func (s *Session) RemoveAttribute(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attrs, name)
}

// Invalidate clears all attributes. The session object itself stays
// resolvable through its store.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = make(map[string]any)
}

// PrincipalName returns the account name of the user attribute, or empty
// when the session carries none.
func (s *Session) PrincipalName() string {
	if p, ok := s.Attribute(UserAttribute).(Principal); ok {
		return p.PrincipalName()
	}
	return ""
}

func (s *Session) attributes() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.attrs))
	for k, v := range s.attrs {
		out[k] = v
	}
	return out
}
