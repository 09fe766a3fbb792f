package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"resa/internal/accounts/service"
	directorystore "resa/internal/accounts/store/directory"
	profilestore "resa/internal/accounts/store/profile"
	userstore "resa/internal/accounts/store/user"
	"resa/internal/asset"
	"resa/internal/authz"
	"resa/internal/credential"
	geocache "resa/internal/geo/cache"
	geomodels "resa/internal/geo/models"
	citystore "resa/internal/geo/store/city"
	provincestore "resa/internal/geo/store/province"
	"resa/internal/validation/pipeline"
	"resa/internal/validation/referential"
	"resa/pkg/platform/httputil"
)

const mediaHost = "http://media.test"

type HandlerSuite struct {
	suite.Suite
	router     http.Handler
	adminToken string
	userToken  string
	province   int64
	city       int64
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	creds, err := credential.New(credential.Config{Secret: "test-secret", HashCost: bcrypt.MinCost})
	s.Require().NoError(err)

	users := userstore.NewInMemory()
	profiles := profilestore.NewInMemory()
	provinces := provincestore.NewInMemory()
	cities := citystore.NewInMemory()

	p := &geomodels.Province{Name: "Tehran"}
	s.Require().NoError(provinces.Create(ctx, p))
	c := &geomodels.City{Name: "Karaj", ProvinceID: p.ID}
	s.Require().NoError(cities.Create(ctx, c))
	s.province, s.city = int64(p.ID), int64(c.ID)

	assets := asset.NewLocalStore(s.T().TempDir())
	lookup := geocache.NewLookup(geocache.NewMemory(time.Minute), provinces, cities)
	orch := pipeline.New(referential.New(users, lookup), creds, assets)
	svc := service.New(users, profiles, directorystore.NewInMemory(users, profiles, provinces, cities), orch, creds,
		service.WithAssetRemover(assets))

	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	New(svc, logger, WithMediaHost(mediaHost)).Register(r, authz.Admin(creds, logger))
	s.router = r

	s.adminToken, err = creds.IssueToken(ctx, credential.Identity{UserID: 1, IsActive: true, IsStaff: true})
	s.Require().NoError(err)
	s.userToken, err = creds.IssueToken(ctx, credential.Identity{UserID: 2, IsActive: true})
	s.Require().NoError(err)
}

func (s *HandlerSuite) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) multipartRequest(method, path string, fields map[string]string, image string) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		s.Require().NoError(mw.WriteField(k, v))
	}
	if image != "" {
		fw, err := mw.CreateFormFile("image", image)
		s.Require().NoError(err)
		_, err = fw.Write([]byte("image-bytes"))
		s.Require().NoError(err)
	}
	s.Require().NoError(mw.Close())
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (s *HandlerSuite) createUser(username, phone, image string) {
	req := s.multipartRequest(http.MethodPost, "/users/", map[string]string{
		"username":     username,
		"phone_number": phone,
		"password":     "Abcdef1!",
		"province":     strconv.FormatInt(s.province, 10),
		"city":         strconv.FormatInt(s.city, 10),
		"first_name":   "First",
	}, image)
	rec := s.send(req, s.adminToken)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *HandlerSuite) list(query string) UserListResponse {
	rec := s.send(httptest.NewRequest(http.MethodGet, "/users"+query, nil), s.adminToken)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var out UserListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func (s *HandlerSuite) errorBody(rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	var out httputil.ErrorResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func (s *HandlerSuite) TestLogin() {
	s.createUser("sara", "09121234567", "")

	login := func(phone, password string) *httptest.ResponseRecorder {
		body := `{"phone_number":"` + phone + `","password":"` + password + `"}`
		return s.send(httptest.NewRequest(http.MethodPost, "/users/login/", strings.NewReader(body)), "")
	}

	s.Run("success", func() {
		rec := login("09121234567", "Abcdef1!")
		s.Require().Equal(http.StatusOK, rec.Code)
		var out TokenResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&out))
		s.NotEmpty(out.AccessToken)
	})

	s.Run("unknown phone", func() {
		rec := login("09120000000", "Abcdef1!")
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(service.MsgIncorrectPhone, s.errorBody(rec).ErrorDescription)
	})

	s.Run("wrong password", func() {
		rec := login("09121234567", "nope")
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(service.MsgIncorrectPassword, s.errorBody(rec).ErrorDescription)
	})

	s.Run("malformed phone", func() {
		rec := login("12345", "Abcdef1!")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestAdminGate() {
	s.Run("no token", func() {
		rec := s.send(httptest.NewRequest(http.MethodGet, "/users", nil), "")
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("non-staff sees 403 rather than 404", func() {
		rec := s.send(httptest.NewRequest(http.MethodGet, "/users/999", nil), s.userToken)
		s.Equal(http.StatusForbidden, rec.Code)
		s.Equal(authz.MsgAdminOnly, s.errorBody(rec).ErrorDescription)
	})

	s.Run("staff sees 404", func() {
		rec := s.send(httptest.NewRequest(http.MethodGet, "/users/999", nil), s.adminToken)
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("Profile not found", s.errorBody(rec).ErrorDescription)
	})
}

func (s *HandlerSuite) TestCreateAndDetail() {
	s.createUser("sara", "09121234567", "avatar.PNG")

	list := s.list("")
	s.Require().Equal(1, list.Total)
	row := list.Profiles[0]
	s.Equal("sara", row.Username)
	s.Equal("Karaj", row.City)
	s.Equal("Tehran", row.Province)

	rec := s.send(httptest.NewRequest(http.MethodGet, "/users/"+strconv.FormatInt(row.ID, 10), nil), s.adminToken)
	s.Require().Equal(http.StatusOK, rec.Code)
	var detail UserDetailResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&detail))
	s.Require().NotNil(detail.Image)
	s.Regexp(`^http://media\.test/media/09121234567/[0-9a-f-]{36}\.PNG$`, *detail.Image)
	s.Equal("First", *detail.FirstName)
	s.Nil(detail.LastName)
}

func (s *HandlerSuite) TestCreateValidation() {
	s.Run("missing province", func() {
		req := s.multipartRequest(http.MethodPost, "/users", map[string]string{
			"username": "sara", "phone_number": "09121234567", "password": "Abcdef1!",
			"city": strconv.FormatInt(s.city, 10),
		}, "")
		rec := s.send(req, s.adminToken)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("PROVINCE_NOT_FOUND", s.errorBody(rec).Reason)
	})

	s.Run("taken username is reported before missing fields", func() {
		s.createUser("reza", "09129998888", "")
		req := s.multipartRequest(http.MethodPost, "/users", map[string]string{
			"username": "reza",
		}, "")
		rec := s.send(req, s.adminToken)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("USERNAME_TAKEN", s.errorBody(rec).Reason)
	})

	s.Run("missing phone number", func() {
		req := s.multipartRequest(http.MethodPost, "/users", map[string]string{
			"username": "sara", "password": "Abcdef1!",
			"province": strconv.FormatInt(s.province, 10), "city": strconv.FormatInt(s.city, 10),
		}, "")
		rec := s.send(req, s.adminToken)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("INVALID_PHONE", s.errorBody(rec).Reason)
	})

	s.Run("non-numeric city", func() {
		req := s.multipartRequest(http.MethodPost, "/users", map[string]string{
			"username": "sara", "phone_number": "09121234567", "password": "Abcdef1!",
			"province": strconv.FormatInt(s.province, 10), "city": "karaj",
		}, "")
		rec := s.send(req, s.adminToken)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("city must be an integer", s.errorBody(rec).ErrorDescription)
	})

	s.Run("bad image extension", func() {
		req := s.multipartRequest(http.MethodPost, "/users", map[string]string{
			"username": "sara", "phone_number": "09121234567", "password": "Abcdef1!",
			"province": strconv.FormatInt(s.province, 10), "city": strconv.FormatInt(s.city, 10),
		}, "avatar.exe")
		rec := s.send(req, s.adminToken)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("BAD_IMAGE_TYPE", s.errorBody(rec).Reason)
	})

	s.Run("weak password", func() {
		req := s.multipartRequest(http.MethodPost, "/users", map[string]string{
			"username": "sara", "phone_number": "09121234567", "password": "abcdefgh",
			"province": strconv.FormatInt(s.province, 10), "city": strconv.FormatInt(s.city, 10),
		}, "")
		rec := s.send(req, s.adminToken)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("WEAK_PASSWORD", s.errorBody(rec).Reason)
	})
}

func (s *HandlerSuite) TestUpdateAndDelete() {
	s.createUser("sara", "09121234567", "")
	s.createUser("ali", "09127654321", "")
	path := "/users/" + strconv.FormatInt(s.list("?username=sara").Profiles[0].ID, 10)

	form := url.Values{"is_staff": {"true"}, "last_name": {"Ahmadi"}}
	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := s.send(req, s.adminToken)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	staff := s.list("?is_staff=true")
	s.Require().Equal(1, staff.Total)
	s.Equal("sara", staff.Profiles[0].Username)

	req = s.multipartRequest(http.MethodPatch, path, map[string]string{"phone_number": "09127654321"}, "")
	rec = s.send(req, s.adminToken)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("PHONE_TAKEN", s.errorBody(rec).Reason)

	rec = s.send(httptest.NewRequest(http.MethodGet, "/users?is_staff=maybe", nil), s.adminToken)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.send(httptest.NewRequest(http.MethodDelete, path, nil), s.adminToken)
	s.Require().Equal(http.StatusOK, rec.Code)
	rec = s.send(httptest.NewRequest(http.MethodGet, path, nil), s.adminToken)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(1, s.list("").Total)
}
