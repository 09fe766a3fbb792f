//go:build integration

package directory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"resa/internal/accounts/models"
	"resa/internal/accounts/store/directory"
	"resa/internal/accounts/store/profile"
	"resa/internal/accounts/store/user"
	id "resa/pkg/domain"
	"resa/pkg/platform/sentinel"
	"resa/pkg/testutil"
	"resa/pkg/testutil/containers"
)

// PostgresStoreSuite covers the user, profile and directory stores against
// one schema, since the directory only reads what the other two write.
type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	users     *user.PostgresStore
	profiles  *profile.PostgresStore
	directory *directory.PostgresStore
	province  id.ProvinceID
	city      id.CityID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.users = user.NewPostgres(s.postgres.DB)
	s.profiles = profile.NewPostgres(s.postgres.DB)
	s.directory = directory.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))
	s.province = s.postgres.CreateTestProvince(ctx, s.T(), "Tehran")
	s.city = s.postgres.CreateTestCity(ctx, s.T(), s.province, "Tehran")
}

func (s *PostgresStoreSuite) seed(u *models.User) *models.Profile {
	ctx := context.Background()
	s.Require().NoError(s.users.Create(ctx, u))
	p := testutil.NewProfileBuilder(u.ID, s.province, s.city).Build()
	s.Require().NoError(s.profiles.Create(ctx, p))
	return p
}

func (s *PostgresStoreSuite) TestUserUniqueness() {
	ctx := context.Background()
	s.Require().NoError(s.users.Create(ctx, testutil.NewUserBuilder(1).Build()))

	err := s.users.Create(ctx, testutil.NewUserBuilder(2).WithUsername("user1").Build())
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	err = s.users.Create(ctx, testutil.NewUserBuilder(3).WithPhone("09120000001").Build())
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)

	got, err := s.users.FindByPhone(ctx, "09120000001")
	s.Require().NoError(err)
	s.Equal("user1", got.Username)
	s.True(got.IsActive)
	s.False(got.IsStaff)
}

func (s *PostgresStoreSuite) TestConcurrentSignupsWithSamePhone() {
	ctx := context.Background()
	result := testutil.RunConcurrent(10, func(idx int) error {
		u := testutil.NewUserBuilder(100 + idx).WithPhone("09125555555").Build()
		return s.users.Create(ctx, u)
	})
	s.Equal(int32(1), result.Successes)
	s.Equal(int32(9), result.Conflicts)
	s.Empty(result.Errors)
}

func (s *PostgresStoreSuite) TestProfileRoundTrip() {
	ctx := context.Background()
	u := testutil.NewUserBuilder(1).Build()
	s.Require().NoError(s.users.Create(ctx, u))

	p := testutil.NewProfileBuilder(u.ID, s.province, s.city).
		WithName("Sara", "Ahmadi").
		WithImage("/media/09120000001/a.png").
		Build()
	s.Require().NoError(s.profiles.Create(ctx, p))

	got, err := s.profiles.FindByUserID(ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(p.ID, got.ID)
	s.Require().NotNil(got.FirstName)
	s.Equal("Sara", *got.FirstName)
	s.Require().NotNil(got.ImageRef)

	got.ImageRef = nil
	s.Require().NoError(s.profiles.Update(ctx, got))
	got, err = s.profiles.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Nil(got.ImageRef)

	err = s.profiles.Create(ctx, testutil.NewProfileBuilder(u.ID, s.province, s.city).Build())
	s.ErrorIs(err, sentinel.ErrAlreadyUsed, "one profile per user")
}

func (s *PostgresStoreSuite) TestProfileCounts() {
	ctx := context.Background()
	s.seed(testutil.NewUserBuilder(1).Build())
	s.seed(testutil.NewUserBuilder(2).Build())

	n, err := s.profiles.CountByProvince(ctx, s.province)
	s.Require().NoError(err)
	s.Equal(2, n)
	n, err = s.profiles.CountByCity(ctx, s.city)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *PostgresStoreSuite) TestDeletingUserCascadesToProfile() {
	ctx := context.Background()
	u := testutil.NewUserBuilder(1).Build()
	p := s.seed(u)

	s.Require().NoError(s.users.Delete(ctx, u.ID))
	_, err := s.profiles.FindByID(ctx, p.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDirectoryListFilters() {
	ctx := context.Background()
	s.seed(testutil.NewUserBuilder(1).WithUsername("ali").Staff().Build())
	s.seed(testutil.NewUserBuilder(2).WithUsername("alireza").Build())
	s.seed(testutil.NewUserBuilder(3).WithUsername("maryam").Inactive().Build())

	all, err := s.directory.List(ctx, models.UserFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("maryam", all[0].Username, "newest first")
	s.Equal("Tehran", all[0].City)

	byName, err := s.directory.List(ctx, models.UserFilter{Username: "ALI"})
	s.Require().NoError(err)
	s.Len(byName, 2)

	staff := true
	onlyStaff, err := s.directory.List(ctx, models.UserFilter{IsStaff: &staff})
	s.Require().NoError(err)
	s.Require().Len(onlyStaff, 1)
	s.Equal("ali", onlyStaff[0].Username)

	active := false
	inactive, err := s.directory.List(ctx, models.UserFilter{IsActive: &active, CityID: s.city})
	s.Require().NoError(err)
	s.Require().Len(inactive, 1)
	s.Equal("maryam", inactive[0].Username)
}

func (s *PostgresStoreSuite) TestDirectoryFilterWildcardsAreLiteral() {
	ctx := context.Background()
	s.seed(testutil.NewUserBuilder(1).WithUsername("a_b").Build())
	s.seed(testutil.NewUserBuilder(2).WithUsername("axb").Build())

	underscore, err := s.directory.List(ctx, models.UserFilter{Username: "a_b"})
	s.Require().NoError(err)
	s.Require().Len(underscore, 1)
	s.Equal("a_b", underscore[0].Username)

	percent, err := s.directory.List(ctx, models.UserFilter{Username: "%"})
	s.Require().NoError(err)
	s.Empty(percent)
}

func (s *PostgresStoreSuite) TestDirectoryGet() {
	ctx := context.Background()
	u := testutil.NewUserBuilder(7).Build()
	s.Require().NoError(s.users.Create(ctx, u))
	p := testutil.NewProfileBuilder(u.ID, s.province, s.city).WithName("Reza", "Karimi").Build()
	s.Require().NoError(s.profiles.Create(ctx, p))

	d, err := s.directory.Get(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(u.ID, d.UserID)
	s.Equal("user7", d.Username)
	s.Equal(s.province, d.ProvinceID)
	s.Equal("Tehran", d.Province)
	s.Nil(d.ImageRef)
	s.Require().NotNil(d.LastName)
	s.Equal("Karimi", *d.LastName)

	_, err = s.directory.Get(ctx, p.ID+100)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
