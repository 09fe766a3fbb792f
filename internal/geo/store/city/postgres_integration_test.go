//go:build integration

package city_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"resa/internal/geo/models"
	"resa/internal/geo/store/city"
	id "resa/pkg/domain"
	"resa/pkg/platform/sentinel"
	"resa/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *city.PostgresStore
	tehran   id.ProvinceID
	fars     id.ProvinceID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = city.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))
	s.tehran = s.postgres.CreateTestProvince(ctx, s.T(), "Tehran")
	s.fars = s.postgres.CreateTestProvince(ctx, s.T(), "Fars")
}

func (s *PostgresStoreSuite) TestNameIsUniquePerProvince() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, &models.City{Name: "Central", ProvinceID: s.tehran}))
	s.Require().NoError(s.store.Create(ctx, &models.City{Name: "Central", ProvinceID: s.fars}))

	err := s.store.Create(ctx, &models.City{Name: "Central", ProvinceID: s.tehran})
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)

	got, err := s.store.FindByName(ctx, s.fars, "Central")
	s.Require().NoError(err)
	s.Equal(s.fars, got.ProvinceID)
}

func (s *PostgresStoreSuite) TestListAndCount() {
	ctx := context.Background()
	for _, c := range []*models.City{
		{Name: "Shiraz", ProvinceID: s.fars},
		{Name: "Kazerun", ProvinceID: s.fars},
		{Name: "Shahriar", ProvinceID: s.tehran},
	} {
		s.Require().NoError(s.store.Create(ctx, c))
	}

	byProvince, err := s.store.List(ctx, models.CityFilter{ProvinceID: s.fars})
	s.Require().NoError(err)
	s.Len(byProvince, 2)

	byName, err := s.store.List(ctx, models.CityFilter{Name: "sh"})
	s.Require().NoError(err)
	s.Len(byName, 2)

	both, err := s.store.List(ctx, models.CityFilter{Name: "sh", ProvinceID: s.tehran})
	s.Require().NoError(err)
	s.Require().Len(both, 1)
	s.Equal("Shahriar", both[0].Name)

	n, err := s.store.CountByProvince(ctx, s.fars)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *PostgresStoreSuite) TestUpdateMovesCity() {
	ctx := context.Background()
	c := &models.City{Name: "Karaj", ProvinceID: s.tehran}
	s.Require().NoError(s.store.Create(ctx, c))

	c.ProvinceID = s.fars
	s.Require().NoError(s.store.Update(ctx, c))

	got, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(s.fars, got.ProvinceID)

	c.ID += 100
	s.ErrorIs(s.store.Update(ctx, c), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()
	c := &models.City{Name: "Kashan", ProvinceID: s.tehran}
	s.Require().NoError(s.store.Create(ctx, c))

	s.Require().NoError(s.store.Delete(ctx, c.ID))
	_, err := s.store.FindByID(ctx, c.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(ctx, c.ID), sentinel.ErrNotFound)
}
