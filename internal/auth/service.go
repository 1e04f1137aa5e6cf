package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"session-server/internal/session"
	"session-server/internal/user"
)

var (
	ErrValidation     = errors.New("auth: required field is empty")
	ErrUnknownAccount = errors.New("auth: unknown account")
	ErrBadPassword    = errors.New("auth: wrong password")
	ErrAccountExists  = errors.New("auth: account already exists")
)

// Service validates credentials and manages the session a login resolves
// to. It delegates account storage to the user repository.
type Service struct {
	users    user.Repository
	sessions session.Store

	// mu makes the find-existing-or-create sequence in Login atomic with
	// respect to concurrent logins for the same account.
	mu sync.Mutex
}

func NewService(users user.Repository, sessions session.Store) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
	}
}

// Login checks the submitted credentials and returns the identifier of
// the session now bound to the account: the already-live one when the
// user is logged in, a freshly created one otherwise. created reports
// which of the two happened.
func (s *Service) Login(ctx context.Context, account, password string) (id string, created bool, err error) {
	if account == "" || password == "" {
		return "", false, ErrValidation
	}

	u, err := s.users.FindByAccount(ctx, account)
	if err != nil {
		return "", false, fmt.Errorf("auth: account lookup: %w", err)
	}
	if u == nil {
		return "", false, ErrUnknownAccount
	}
	if !u.CheckPassword(password) {
		return "", false, ErrBadPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err = s.sessions.FindSessionIDForUser(ctx, u.Account)
	if err != nil {
		return "", false, fmt.Errorf("auth: session lookup: %w", err)
	}
	if id != "" {
		return id, false, nil
	}

	sess := session.New(session.NewID())
	sess.SetAttribute(session.UserAttribute, u)

	if err := s.sessions.Add(ctx, sess); err != nil {
		return "", false, fmt.Errorf("auth: session add: %w", err)
	}
	return sess.ID(), true, nil
}

// Register persists a new account.
func (s *Service) Register(ctx context.Context, account, password, email string) error {
	if account == "" || password == "" {
		return ErrValidation
	}

	existing, err := s.users.FindByAccount(ctx, account)
	if err != nil {
		return fmt.Errorf("auth: account lookup: %w", err)
	}
	if existing != nil {
		return ErrAccountExists
	}

	_, err = s.users.Save(ctx, user.Registration{
		Account:  account,
		Password: password,
		Email:    email,
	})
	if errors.Is(err, user.ErrDuplicateAccount) {
		return ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("auth: save account: %w", err)
	}
	return nil
}
