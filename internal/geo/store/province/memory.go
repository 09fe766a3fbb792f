package province

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

// InMemory stores provinces in memory.
type InMemory struct {
	mu        sync.RWMutex
	nextID    id.ProvinceID
	provinces map[id.ProvinceID]models.Province
	nameIdx   map[string]id.ProvinceID
}

func NewInMemory() *InMemory {
	return &InMemory{
		provinces: make(map[id.ProvinceID]models.Province),
		nameIdx:   make(map[string]id.ProvinceID),
	}
}

// Create assigns the next ID and stores the province.
func (s *InMemory) Create(_ context.Context, p *models.Province) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.nameIdx[p.Name]; exists {
		return fmt.Errorf("province name %q: %w", p.Name, sentinel.ErrAlreadyUsed)
	}
	s.nextID++
	p.ID = s.nextID
	s.provinces[p.ID] = *p
	s.nameIdx[p.Name] = p.ID
	return nil
}

func (s *InMemory) Update(_ context.Context, p *models.Province) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.provinces[p.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if owner, exists := s.nameIdx[p.Name]; exists && owner != p.ID {
		return fmt.Errorf("province name %q: %w", p.Name, sentinel.ErrAlreadyUsed)
	}
	delete(s.nameIdx, current.Name)
	s.provinces[p.ID] = *p
	s.nameIdx[p.Name] = p.ID
	return nil
}

func (s *InMemory) Delete(_ context.Context, provinceID id.ProvinceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.provinces[provinceID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.nameIdx, current.Name)
	delete(s.provinces, provinceID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, provinceID id.ProvinceID) (*models.Province, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.provinces[provinceID]; ok {
		return &p, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Province, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pid, ok := s.nameIdx[name]; ok {
		p := s.provinces[pid]
		return &p, nil
	}
	return nil, sentinel.ErrNotFound
}

// List returns provinces newest first, filtered by case-insensitive substring.
func (s *InMemory) List(_ context.Context, name string) ([]*models.Province, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Province, 0, len(s.provinces))
	for _, p := range s.provinces {
		if models.MatchesName(p.Name, name) {
			out = append(out, &p)
		}
	}
	slices.SortFunc(out, func(a, b *models.Province) int { return cmp.Compare(b.ID, a.ID) })
	return out, nil
}
