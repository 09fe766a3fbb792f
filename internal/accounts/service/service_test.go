package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Credentials,AssetRemover

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	accountsmetrics "resa/internal/accounts/metrics"
	"resa/internal/accounts/models"
	"resa/internal/accounts/service/mocks"
	directorystore "resa/internal/accounts/store/directory"
	profilestore "resa/internal/accounts/store/profile"
	userstore "resa/internal/accounts/store/user"
	"resa/internal/asset"
	"resa/internal/credential"
	geocache "resa/internal/geo/cache"
	geomodels "resa/internal/geo/models"
	citystore "resa/internal/geo/store/city"
	provincestore "resa/internal/geo/store/province"
	"resa/internal/validation/pipeline"
	"resa/internal/validation/referential"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
)

// failingProfiles lets a test break the profile write after validation and
// image storage have already succeeded.
type failingProfiles struct {
	*profilestore.InMemory
	createErr error
}

func (f *failingProfiles) Create(ctx context.Context, p *models.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.InMemory.Create(ctx, p)
}

type AccountsServiceSuite struct {
	suite.Suite
	ctx       context.Context
	users     *userstore.InMemory
	profiles  *failingProfiles
	creds     *credential.Service
	metrics   *accountsmetrics.Metrics
	mediaRoot string
	service   *Service

	tehran, fars  *geomodels.Province
	karaj, shiraz *geomodels.City
}

func TestAccountsServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountsServiceSuite))
}

func (s *AccountsServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = userstore.NewInMemory()
	s.profiles = &failingProfiles{InMemory: profilestore.NewInMemory()}
	provinces := provincestore.NewInMemory()
	cities := citystore.NewInMemory()
	s.mediaRoot = s.T().TempDir()
	s.metrics = accountsmetrics.New(prometheus.NewRegistry())

	var err error
	s.creds, err = credential.New(credential.Config{Secret: "test-secret", HashCost: bcrypt.MinCost})
	s.Require().NoError(err)

	s.tehran = &geomodels.Province{Name: "Tehran"}
	s.fars = &geomodels.Province{Name: "Fars"}
	s.Require().NoError(provinces.Create(s.ctx, s.tehran))
	s.Require().NoError(provinces.Create(s.ctx, s.fars))
	s.karaj = &geomodels.City{Name: "Karaj", ProvinceID: s.tehran.ID}
	s.shiraz = &geomodels.City{Name: "Shiraz", ProvinceID: s.fars.ID}
	s.Require().NoError(cities.Create(s.ctx, s.karaj))
	s.Require().NoError(cities.Create(s.ctx, s.shiraz))

	assets := asset.NewLocalStore(s.mediaRoot)
	lookup := geocache.NewLookup(geocache.NewMemory(time.Minute), provinces, cities)
	orch := pipeline.New(referential.New(s.users, lookup), s.creds, assets)
	directory := directorystore.NewInMemory(s.users, s.profiles, provinces, cities)

	s.service = New(s.users, s.profiles, directory, orch, s.creds,
		WithAssetRemover(assets),
		WithMetrics(s.metrics),
	)
}

func (s *AccountsServiceSuite) createUser(username, phone string) *models.Profile {
	p, err := s.service.CreateUser(s.ctx, CreateUserCommand{
		Username:    username,
		PhoneNumber: phone,
		Password:    "Abcdef1!",
		ProvinceID:  s.tehran.ID,
		CityID:      s.karaj.ID,
	})
	s.Require().NoError(err)
	return p
}

func (s *AccountsServiceSuite) mediaFiles() []string {
	var files []string
	_ = filepath.WalkDir(s.mediaRoot, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	return files
}

func (s *AccountsServiceSuite) TestLogin() {
	s.createUser("sara", "09121234567")

	s.Run("valid credentials issue a decodable token", func() {
		token, err := s.service.Login(s.ctx, "09121234567", "Abcdef1!")
		s.Require().NoError(err)

		claims := s.creds.DecodeToken(s.ctx, token)
		s.Require().NotNil(claims)
		s.Equal("sara", claims.Username)
		s.True(claims.IsActive)
		s.False(claims.IsStaff)
	})

	s.Run("unknown phone", func() {
		_, err := s.service.Login(s.ctx, "09120000000", "Abcdef1!")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		s.EqualError(err, MsgIncorrectPhone)
	})

	s.Run("wrong password", func() {
		_, err := s.service.Login(s.ctx, "09121234567", "Abcdef1?")
		s.EqualError(err, MsgIncorrectPassword)
	})

	s.Equal(1.0, counterValue(s.T(), s.metrics.LoginAttempts.WithLabelValues("ok")))
	s.Equal(1.0, counterValue(s.T(), s.metrics.LoginAttempts.WithLabelValues("bad_password")))
}

func (s *AccountsServiceSuite) TestCreateUser() {
	s.Run("stores user and profile with image", func() {
		first := "Sara"
		p, err := s.service.CreateUser(s.ctx, CreateUserCommand{
			Username:    "sara",
			PhoneNumber: "09121234567",
			Password:    "Abcdef1!",
			ProvinceID:  s.tehran.ID,
			CityID:      s.karaj.ID,
			FirstName:   &first,
			Image:       &asset.Upload{Filename: "me.jpg", Content: bytes.NewReader([]byte("jpeg"))},
		})
		s.Require().NoError(err)
		s.Require().NotNil(p.ImageRef)
		s.Regexp(`^/media/09121234567/[0-9a-f-]{36}\.jpg$`, *p.ImageRef)

		detail, err := s.service.GetUserDetail(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("sara", detail.Username)
		s.Equal("Karaj", detail.City)
		s.Equal("Tehran", detail.Province)
		s.False(detail.IsStaff)
		s.Equal("Sara", *detail.FirstName)
	})

	s.Run("username is checked before phone", func() {
		_, err := s.service.CreateUser(s.ctx, CreateUserCommand{
			Username: "sara", PhoneNumber: "09121234567", Password: "Abcdef1!",
			ProvinceID: s.tehran.ID, CityID: s.karaj.ID,
		})
		s.True(dErrors.HasReason(err, referential.ReasonUsernameTaken))
	})

	s.Run("city from another province is rejected", func() {
		_, err := s.service.CreateUser(s.ctx, CreateUserCommand{
			Username: "ali", PhoneNumber: "09127654321", Password: "Abcdef1!",
			ProvinceID: s.tehran.ID, CityID: s.shiraz.ID,
		})
		s.True(dErrors.HasReason(err, referential.ReasonCityNotFound))
	})

	s.Equal(1.0, counterValue(s.T(), s.metrics.UsersCreated))
}

func (s *AccountsServiceSuite) TestCreateUserRemovesImageWhenWriteFails() {
	s.profiles.createErr = errors.New("disk full")

	_, err := s.service.CreateUser(s.ctx, CreateUserCommand{
		Username:    "sara",
		PhoneNumber: "09121234567",
		Password:    "Abcdef1!",
		ProvinceID:  s.tehran.ID,
		CityID:      s.karaj.ID,
		Image:       &asset.Upload{Filename: "me.png", Content: bytes.NewReader([]byte("png"))},
	})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Empty(s.mediaFiles())
	s.Equal(1.0, counterValue(s.T(), s.metrics.AssetCleanups.WithLabelValues("removed")))
}

func (s *AccountsServiceSuite) TestUpdateUser() {
	p := s.createUser("sara", "09121234567")
	other := s.createUser("ali", "09127654321")

	s.Run("resubmitting own phone is accepted", func() {
		phone := "09121234567"
		_, err := s.service.UpdateUser(s.ctx, p.ID, UpdateUserCommand{PhoneNumber: &phone})
		s.NoError(err)
	})

	s.Run("taking another user's phone is a conflict", func() {
		phone := "09127654321"
		_, err := s.service.UpdateUser(s.ctx, p.ID, UpdateUserCommand{PhoneNumber: &phone})
		s.True(dErrors.HasReason(err, referential.ReasonPhoneTaken))
	})

	s.Run("moving province alone re-checks the current city", func() {
		_, err := s.service.UpdateUser(s.ctx, p.ID, UpdateUserCommand{ProvinceID: &s.fars.ID})
		s.True(dErrors.HasReason(err, referential.ReasonCityNotFound))
	})

	s.Run("moving province and city together", func() {
		staff := true
		updated, err := s.service.UpdateUser(s.ctx, p.ID, UpdateUserCommand{
			ProvinceID: &s.fars.ID,
			CityID:     &s.shiraz.ID,
			IsStaff:    &staff,
		})
		s.Require().NoError(err)
		s.Equal(s.shiraz.ID, updated.CityID)

		detail, err := s.service.GetUserDetail(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("Shiraz", detail.City)
		s.True(detail.IsStaff)
	})

	s.Run("new password allows login", func() {
		pw := "Zyxwvu9#"
		_, err := s.service.UpdateUser(s.ctx, other.ID, UpdateUserCommand{Password: &pw})
		s.Require().NoError(err)
		_, err = s.service.Login(s.ctx, "09127654321", pw)
		s.NoError(err)
	})

	s.Run("unknown profile", func() {
		name := "x"
		_, err := s.service.UpdateUser(s.ctx, id.ProfileID(999), UpdateUserCommand{Username: &name})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.EqualError(err, "Profile not found")
	})
}

func (s *AccountsServiceSuite) TestDeleteUser() {
	p := s.createUser("sara", "09121234567")

	s.Require().NoError(s.service.DeleteUser(s.ctx, p.ID))

	_, err := s.service.GetUserDetail(s.ctx, p.ID)
	s.EqualError(err, "Profile not found")
	_, err = s.users.FindByID(s.ctx, p.UserID)
	s.Error(err)

	err = s.service.DeleteUser(s.ctx, p.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *AccountsServiceSuite) TestListUsersFilters() {
	s.createUser("sara", "09121234567")
	p := s.createUser("ali", "09127654321")
	staff := true
	_, err := s.service.UpdateUser(s.ctx, p.ID, UpdateUserCommand{IsStaff: &staff})
	s.Require().NoError(err)

	all, err := s.service.ListUsers(s.ctx, models.UserFilter{})
	s.Require().NoError(err)
	s.Len(all, 2)

	staffOnly, err := s.service.ListUsers(s.ctx, models.UserFilter{IsStaff: &staff})
	s.Require().NoError(err)
	s.Require().Len(staffOnly, 1)
	s.Equal("ali", staffOnly[0].Username)

	byPhone, err := s.service.ListUsers(s.ctx, models.UserFilter{PhoneNumber: "4567"})
	s.Require().NoError(err)
	s.Require().Len(byPhone, 1)
	s.Equal("sara", byPhone[0].Username)
}

func TestLoginIssuesTokenForStoredIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	creds := mocks.NewMockCredentials(ctrl)
	users := userstore.NewInMemory()
	u := models.NewUser("root", "09120000001", "digest", time.Unix(0, 0))
	u.IsStaff = true
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}

	creds.EXPECT().VerifyPassword("secret", "digest").Return(true)
	creds.EXPECT().IssueToken(gomock.Any(), credential.Identity{
		UserID: u.ID, Username: "root", PhoneNumber: "09120000001", IsActive: true, IsStaff: true,
	}).Return("signed", nil)

	svc := New(users, profilestore.NewInMemory(), nil, nil, creds)
	token, err := svc.Login(context.Background(), "09120000001", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "signed" {
		t.Fatalf("expected signed token, got %q", token)
	}
}

func TestDiscardAssetReportsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	remover := mocks.NewMockAssetRemover(ctrl)
	m := accountsmetrics.New(prometheus.NewRegistry())
	remover.EXPECT().Remove(gomock.Any(), "/media/x/y.png").Return(errors.New("busy"))

	svc := New(nil, nil, nil, nil, nil, WithAssetRemover(remover), WithMetrics(m))
	ref := "/media/x/y.png"
	svc.discardAsset(context.Background(), &ref)
	svc.discardAsset(context.Background(), nil)

	if got := counterValue(t, m.AssetCleanups.WithLabelValues("failed")); got != 1 {
		t.Fatalf("expected one failed cleanup, got %v", got)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
