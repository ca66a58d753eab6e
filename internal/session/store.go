package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/karthikeyavasudha/clotherr/internal/domain"
	"github.com/karthikeyavasudha/clotherr/internal/storage"
)

// AuthAPI is the remote authentication collaborator.
type AuthAPI interface {
	SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error)
	SignUp(ctx context.Context, req domain.SignupRequest) (*domain.AuthSession, error)
}

// Store holds the authenticated identity for the current process. Token and
// identity are always set or cleared together; the store never holds one
// without the other.
type Store struct {
	mu    sync.Mutex
	token string
	user  *domain.User
	store storage.Storage
	auth  AuthAPI
	subs  []func()
}

func NewStore(store storage.Storage, auth AuthAPI) *Store {
	return &Store{store: store, auth: auth}
}

// Hydrate restores a persisted session. The session is only restored when
// both the token and a parseable identity are present; anything else fails
// open to logged out.
func (s *Store) Hydrate() {
	rawToken, err := s.store.Get(storage.KeyToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("session hydrate error: %v", err)
		}
		return
	}

	rawUser, err := s.store.Get(storage.KeyUserData)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("session hydrate error: %v", err)
		}
		return
	}

	var user domain.User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		log.Printf("session hydrate error: discarding unreadable profile data: %v", err)
		return
	}

	s.mu.Lock()
	s.token = string(rawToken)
	s.user = &user
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers a callback invoked after every session change.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// SignIn exchanges credentials for a session. On failure the prior state is
// untouched and the error carries the backend's message for the form.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	auth, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	s.apply(auth)
	return nil
}

// SignUp creates an account and signs the new user in.
func (s *Store) SignUp(ctx context.Context, req domain.SignupRequest) error {
	auth, err := s.auth.SignUp(ctx, req)
	if err != nil {
		return err
	}
	s.apply(auth)
	return nil
}

func (s *Store) apply(auth *domain.AuthSession) {
	user := auth.User

	s.mu.Lock()
	s.token = auth.AccessToken
	s.user = &user
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// SignOut clears the session from memory and device storage. Signing out
// while already signed out is a no-op success.
func (s *Store) SignOut() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	if err := s.store.Delete(storage.KeyToken); err != nil {
		log.Printf("session persist error: %v", err)
	}
	if err := s.store.Delete(storage.KeyUserData); err != nil {
		log.Printf("session persist error: %v", err)
	}
	s.mu.Unlock()
	s.notify()
}

// UpdateIdentity merges edited profile fields into the identity and
// re-persists it. Purely local: the caller runs the remote profile update
// first and only applies here on success. The token is untouched.
func (s *Store) UpdateIdentity(fields domain.ProfileUpdate) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	fields.Apply(s.user)
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Identity returns a copy of the signed-in profile, or nil when logged out.
func (s *Store) Identity() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

// persistLocked writes token and identity together. The caller holds the
// lock and guarantees both are set.
func (s *Store) persistLocked() {
	if err := s.store.Put(storage.KeyToken, []byte(s.token)); err != nil {
		log.Printf("session persist error: %v", err)
	}
	encoded, err := json.Marshal(s.user)
	if err != nil {
		log.Printf("session persist error: %v", err)
		return
	}
	if err := s.store.Put(storage.KeyUserData, encoded); err != nil {
		log.Printf("session persist error: %v", err)
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
