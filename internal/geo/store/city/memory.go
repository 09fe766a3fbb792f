package city

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"resa/internal/geo/models"
	id "resa/pkg/domain"
	"resa/pkg/platform/sentinel"
)

type nameKey struct {
	province id.ProvinceID
	name     string
}

// InMemory stores cities in memory.
type InMemory struct {
	mu      sync.RWMutex
	nextID  id.CityID
	cities  map[id.CityID]models.City
	nameIdx map[nameKey]id.CityID
}

func NewInMemory() *InMemory {
	return &InMemory{
		cities:  make(map[id.CityID]models.City),
		nameIdx: make(map[nameKey]id.CityID),
	}
}

func (s *InMemory) Create(_ context.Context, c *models.City) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := nameKey{c.ProvinceID, c.Name}
	if _, exists := s.nameIdx[key]; exists {
		return fmt.Errorf("city %q in province %s: %w", c.Name, c.ProvinceID, sentinel.ErrAlreadyUsed)
	}
	s.nextID++
	c.ID = s.nextID
	s.cities[c.ID] = *c
	s.nameIdx[key] = c.ID
	return nil
}

func (s *InMemory) Update(_ context.Context, c *models.City) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.cities[c.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	key := nameKey{c.ProvinceID, c.Name}
	if owner, exists := s.nameIdx[key]; exists && owner != c.ID {
		return fmt.Errorf("city %q in province %s: %w", c.Name, c.ProvinceID, sentinel.ErrAlreadyUsed)
	}
	delete(s.nameIdx, nameKey{current.ProvinceID, current.Name})
	s.cities[c.ID] = *c
	s.nameIdx[key] = c.ID
	return nil
}

func (s *InMemory) Delete(_ context.Context, cityID id.CityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.cities[cityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.nameIdx, nameKey{current.ProvinceID, current.Name})
	delete(s.cities, cityID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, cityID id.CityID) (*models.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.cities[cityID]; ok {
		return &c, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByName(_ context.Context, provinceID id.ProvinceID, name string) (*models.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cid, ok := s.nameIdx[nameKey{provinceID, name}]; ok {
		c := s.cities[cid]
		return &c, nil
	}
	return nil, sentinel.ErrNotFound
}

// List returns cities newest first.
func (s *InMemory) List(_ context.Context, filter models.CityFilter) ([]*models.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.City, 0, len(s.cities))
	for _, c := range s.cities {
		if !filter.ProvinceID.IsNil() && c.ProvinceID != filter.ProvinceID {
			continue
		}
		if models.MatchesName(c.Name, filter.Name) {
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *models.City) int { return cmp.Compare(b.ID, a.ID) })
	return out, nil
}

func (s *InMemory) CountByProvince(_ context.Context, provinceID id.ProvinceID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.cities {
		if c.ProvinceID == provinceID {
			n++
		}
	}
	return n, nil
}
