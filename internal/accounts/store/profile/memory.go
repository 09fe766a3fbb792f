package profile

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"resa/internal/accounts/models"
	id "resa/pkg/domain"
	"resa/pkg/platform/sentinel"
)

// InMemory stores profiles in memory. Each user owns at most one profile.
type InMemory struct {
	mu       sync.RWMutex
	nextID   id.ProfileID
	profiles map[id.ProfileID]models.Profile
	byUser   map[id.UserID]id.ProfileID
}

func NewInMemory() *InMemory {
	return &InMemory{
		profiles: make(map[id.ProfileID]models.Profile),
		byUser:   make(map[id.UserID]id.ProfileID),
	}
}

func (s *InMemory) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byUser[p.UserID]; exists {
		return fmt.Errorf("profile for user %s: %w", p.UserID, sentinel.ErrAlreadyUsed)
	}
	s.nextID++
	p.ID = s.nextID
	s.profiles[p.ID] = *p
	s.byUser[p.UserID] = p.ID
	return nil
}

func (s *InMemory) Update(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.profiles[p.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	// The owning user never changes.
	p.UserID = current.UserID
	s.profiles[p.ID] = *p
	return nil
}

func (s *InMemory) Delete(_ context.Context, profileID id.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.profiles[profileID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byUser, current.UserID)
	delete(s.profiles, profileID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, profileID id.ProfileID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[profileID]; ok {
		return &p, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByUserID(_ context.Context, userID id.UserID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pid, ok := s.byUser[userID]; ok {
		p := s.profiles[pid]
		return &p, nil
	}
	return nil, sentinel.ErrNotFound
}

// List returns every profile, newest first.
func (s *InMemory) List(_ context.Context) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, &p)
	}
	slices.SortFunc(out, func(a, b *models.Profile) int { return cmp.Compare(b.ID, a.ID) })
	return out, nil
}

func (s *InMemory) CountByProvince(_ context.Context, provinceID id.ProvinceID) (int, error) {
	return s.count(func(p models.Profile) bool { return p.ProvinceID == provinceID }), nil
}

func (s *InMemory) CountByCity(_ context.Context, cityID id.CityID) (int, error) {
	return s.count(func(p models.Profile) bool { return p.CityID == cityID }), nil
}

func (s *InMemory) count(match func(models.Profile) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.profiles {
		if match(p) {
			n++
		}
	}
	return n
}
