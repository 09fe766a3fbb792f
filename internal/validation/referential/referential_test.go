package referential

//go:generate mockgen -source=referential.go -destination=mocks/mocks.go -package=mocks UserLookup,GeoLookup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"resa/internal/accounts/models"
	geomodels "resa/internal/geo/models"
	"resa/internal/validation/field"
	"resa/internal/validation/referential/mocks"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
	"resa/pkg/platform/sentinel"
)

type ReferentialSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	users     *mocks.MockUserLookup
	geo       *mocks.MockGeoLookup
	validator *Validator
}

func TestReferentialSuite(t *testing.T) {
	suite.Run(t, new(ReferentialSuite))
}

func (s *ReferentialSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.users = mocks.NewMockUserLookup(s.ctrl)
	s.geo = mocks.NewMockGeoLookup(s.ctrl)
	s.validator = New(s.users, s.geo)
}

func (s *ReferentialSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ReferentialSuite) TestEnsureUsernameAvailable() {
	s.Run("free username", func() {
		s.users.EXPECT().FindByUsername(gomock.Any(), "sara").Return(nil, sentinel.ErrNotFound)
		got, err := s.validator.EnsureUsernameAvailable(s.ctx, "sara", nil)
		s.Require().NoError(err)
		s.Equal("sara", got)
	})

	s.Run("taken by another user", func() {
		s.users.EXPECT().FindByUsername(gomock.Any(), "sara").Return(&models.User{ID: 3}, nil)
		_, err := s.validator.EnsureUsernameAvailable(s.ctx, "sara", nil)
		s.True(dErrors.HasReason(err, ReasonUsernameTaken))
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.EqualError(err, "A user with username already exists")
	})

	s.Run("held by the excluded user", func() {
		self := id.UserID(3)
		s.users.EXPECT().FindByUsername(gomock.Any(), "sara").Return(&models.User{ID: 3}, nil)
		_, err := s.validator.EnsureUsernameAvailable(s.ctx, "sara", &self)
		s.NoError(err)
	})

	s.Run("storage failure", func() {
		s.users.EXPECT().FindByUsername(gomock.Any(), "sara").Return(nil, errors.New("connection reset"))
		_, err := s.validator.EnsureUsernameAvailable(s.ctx, "sara", nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ReferentialSuite) TestEnsurePhoneAvailable() {
	s.Run("bad format never hits the store", func() {
		_, err := s.validator.EnsurePhoneAvailable(s.ctx, "9121234567", nil)
		s.True(dErrors.HasReason(err, field.ReasonInvalidPhone))
	})

	s.Run("duplicate phone", func() {
		s.users.EXPECT().FindByPhone(gomock.Any(), "09121234567").Return(&models.User{ID: 8}, nil)
		_, err := s.validator.EnsurePhoneAvailable(s.ctx, "09121234567", nil)
		s.True(dErrors.HasReason(err, ReasonPhoneTaken))
		s.EqualError(err, "A user with phone_number already exists")
	})

	s.Run("own unchanged phone on update", func() {
		self := id.UserID(8)
		s.users.EXPECT().FindByPhone(gomock.Any(), "09121234567").Return(&models.User{ID: 8}, nil)
		got, err := s.validator.EnsurePhoneAvailable(s.ctx, "09121234567", &self)
		s.Require().NoError(err)
		s.Equal("09121234567", got)
	})
}

func (s *ReferentialSuite) TestResolveProvince() {
	s.Run("found", func() {
		s.geo.EXPECT().ProvinceByID(gomock.Any(), id.ProvinceID(1)).Return(&geomodels.Province{ID: 1, Name: "Tehran"}, nil)
		p, err := s.validator.ResolveProvince(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal("Tehran", p.Name)
	})

	s.Run("missing", func() {
		s.geo.EXPECT().ProvinceByID(gomock.Any(), id.ProvinceID(9)).Return(nil, sentinel.ErrNotFound)
		_, err := s.validator.ResolveProvince(s.ctx, 9)
		s.True(dErrors.HasReason(err, ReasonProvinceNotFound))
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidReference))
	})

	s.Run("zero id", func() {
		_, err := s.validator.ResolveProvince(s.ctx, 0)
		s.True(dErrors.HasReason(err, ReasonProvinceNotFound))
	})
}

func (s *ReferentialSuite) TestResolveCity() {
	s.Run("city in province", func() {
		s.geo.EXPECT().CityByID(gomock.Any(), id.CityID(4)).Return(&geomodels.City{ID: 4, ProvinceID: 1}, nil)
		c, err := s.validator.ResolveCity(s.ctx, 1, 4)
		s.Require().NoError(err)
		s.Equal(id.CityID(4), c.ID)
	})

	s.Run("city under another province", func() {
		s.geo.EXPECT().CityByID(gomock.Any(), id.CityID(4)).Return(&geomodels.City{ID: 4, ProvinceID: 2}, nil)
		_, err := s.validator.ResolveCity(s.ctx, 1, 4)
		s.True(dErrors.HasReason(err, ReasonCityNotFound))
		s.EqualError(err, "City not found")
	})

	s.Run("missing city", func() {
		s.geo.EXPECT().CityByID(gomock.Any(), id.CityID(5)).Return(nil, sentinel.ErrNotFound)
		_, err := s.validator.ResolveCity(s.ctx, 1, 5)
		s.True(dErrors.HasReason(err, ReasonCityNotFound))
	})
}
