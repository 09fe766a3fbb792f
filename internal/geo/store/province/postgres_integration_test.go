//go:build integration

package province_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"resa/internal/geo/models"
	"resa/internal/geo/store/province"
	"resa/pkg/platform/sentinel"
	"resa/pkg/testutil"
	"resa/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *province.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = province.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	p := &models.Province{Name: "Tehran"}
	s.Require().NoError(s.store.Create(ctx, p))
	s.False(p.ID.IsNil())

	got, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Tehran", got.Name)

	got, err = s.store.FindByName(ctx, "Tehran")
	s.Require().NoError(err)
	s.Equal(p.ID, got.ID)

	_, err = s.store.FindByID(ctx, p.ID+100)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUniqueName() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, &models.Province{Name: "Fars"}))
	err := s.store.Create(ctx, &models.Province{Name: "Fars"})
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)

	other := &models.Province{Name: "Yazd"}
	s.Require().NoError(s.store.Create(ctx, other))
	other.Name = "Fars"
	s.ErrorIs(s.store.Update(ctx, other), sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestListFiltersCaseInsensitively() {
	ctx := context.Background()
	for _, name := range []string{"Khorasan Razavi", "South Khorasan", "Gilan"} {
		s.Require().NoError(s.store.Create(ctx, &models.Province{Name: name}))
	}

	list, err := s.store.List(ctx, "khorasan")
	s.Require().NoError(err)
	s.Len(list, 2)

	all, err := s.store.List(ctx, "")
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *PostgresStoreSuite) TestDeleteReferencedProvinceIsInUse() {
	ctx := context.Background()
	provinceID := s.postgres.CreateTestProvince(ctx, s.T(), "Qom")
	s.postgres.CreateTestCity(ctx, s.T(), provinceID, "Qom")

	s.ErrorIs(s.store.Delete(ctx, provinceID), sentinel.ErrInUse)
	s.ErrorIs(s.store.Delete(ctx, provinceID+100), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestConcurrentCreateSameName() {
	ctx := context.Background()
	result := testutil.RunConcurrent(20, func(int) error {
		return s.store.Create(ctx, &models.Province{Name: "Alborz"})
	})
	s.Equal(int32(1), result.Successes)
	s.Equal(int32(19), result.Conflicts, fmt.Sprint(result.Errors))
}
