package user

import (
	"context"
	"fmt"
	"sync"

	"resa/internal/accounts/models"
	id "resa/pkg/domain"
	"resa/pkg/platform/sentinel"
)

// InMemory stores users in memory with username and phone indexes.
type InMemory struct {
	mu      sync.RWMutex
	nextID  id.UserID
	users   map[id.UserID]models.User
	byName  map[string]id.UserID
	byPhone map[string]id.UserID
}

func NewInMemory() *InMemory {
	return &InMemory{
		users:   make(map[id.UserID]models.User),
		byName:  make(map[string]id.UserID),
		byPhone: make(map[string]id.UserID),
	}
}

func (s *InMemory) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(u, 0); err != nil {
		return err
	}
	s.nextID++
	u.ID = s.nextID
	s.put(u)
	return nil
}

func (s *InMemory) Update(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users[u.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if err := s.checkUnique(u, u.ID); err != nil {
		return err
	}
	delete(s.byName, current.Username)
	delete(s.byPhone, current.PhoneNumber)
	s.put(u)
	return nil
}

func (s *InMemory) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byName, current.Username)
	delete(s.byPhone, current.PhoneNumber)
	delete(s.users, userID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[userID]; ok {
		return &u, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findIndexed(s.byName, username)
}

func (s *InMemory) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	return s.findIndexed(s.byPhone, phone)
}

func (s *InMemory) findIndexed(idx map[string]id.UserID, key string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if uid, ok := idx[key]; ok {
		u := s.users[uid]
		return &u, nil
	}
	return nil, sentinel.ErrNotFound
}

// checkUnique must be called with the write lock held.
func (s *InMemory) checkUnique(u *models.User, self id.UserID) error {
	if owner, ok := s.byName[u.Username]; ok && owner != self {
		return fmt.Errorf("username %q: %w", u.Username, sentinel.ErrAlreadyUsed)
	}
	if owner, ok := s.byPhone[u.PhoneNumber]; ok && owner != self {
		return fmt.Errorf("phone number: %w", sentinel.ErrAlreadyUsed)
	}
	return nil
}

func (s *InMemory) put(u *models.User) {
	s.users[u.ID] = *u
	s.byName[u.Username] = u.ID
	s.byPhone[u.PhoneNumber] = u.ID
}
