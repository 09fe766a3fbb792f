package handler

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"resa/internal/accounts/models"
	"resa/internal/accounts/service"
	"resa/internal/asset"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
	"resa/pkg/platform/httputil"
	"resa/pkg/requestcontext"
)

const (
	// DefaultMediaHost prefixes image references in detail responses.
	DefaultMediaHost = "http://127.0.0.1:8000"
	// DefaultMaxUploadBytes bounds a multipart user form.
	DefaultMaxUploadBytes = 10 << 20

	multipartMemory = 1 << 20
)

// Service defines the account operations used by the handler.
type Service interface {
	Login(ctx context.Context, phoneNumber, password string) (string, error)
	CreateUser(ctx context.Context, cmd service.CreateUserCommand) (*models.Profile, error)
	UpdateUser(ctx context.Context, profileID id.ProfileID, cmd service.UpdateUserCommand) (*models.Profile, error)
	DeleteUser(ctx context.Context, profileID id.ProfileID) error
	ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.UserSummary, error)
	GetUserDetail(ctx context.Context, profileID id.ProfileID) (*models.UserDetail, error)
}

type Handler struct {
	service        Service
	logger         *slog.Logger
	mediaHost      string
	maxUploadBytes int64
}

// Option configures a Handler.
type Option func(*Handler)

// WithMediaHost sets the scheme and host prepended to image references.
func WithMediaHost(host string) Option {
	return func(h *Handler) {
		h.mediaHost = host
	}
}

func WithMaxUploadBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service:        service,
		logger:         logger,
		mediaHost:      DefaultMediaHost,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the account routes. Everything except login goes through
// admin.
func (h *Handler) Register(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/login", h.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Get("/", h.HandleListUsers)
			r.Post("/", h.HandleCreateUser)
			r.Get("/{id}", h.HandleGetUser)
			r.Patch("/{id}", h.HandleUpdateUser)
			r.Delete("/{id}", h.HandleDeleteUser)
		})
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	token, err := h.service.Login(ctx, req.PhoneNumber, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TokenResponse{AccessToken: token})
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	filter, err := parseUserFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	list, err := h.service.ListUsers(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list users failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserListResponse(list))
}

func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	profileID, ok := parseProfileID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.GetUserDetail(ctx, profileID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get user failed", "error", err, "request_id", requestID, "profile_id", profileID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserDetailResponse(detail, h.mediaHost))
}

func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	image, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	defer closeUpload(image)

	f := &form{r: r}
	req := &CreateUserRequest{
		Username:    f.str("username"),
		PhoneNumber: f.str("phone_number"),
		Password:    f.str("password"),
		Province:    f.int("province"),
		City:        f.int("city"),
		FirstName:   f.optStr("first_name"),
		LastName:    f.optStr("last_name"),
		Image:       upload(image),
	}
	if f.err != nil {
		httputil.WriteError(w, f.err)
		return
	}
	if !httputil.Prepare(w, req, h.logger, ctx, requestID) {
		return
	}

	if _, err := h.service.CreateUser(ctx, req.ToCommand()); err != nil {
		h.logger.ErrorContext(ctx, "create user failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, msgUserCreated)
}

func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	profileID, ok := parseProfileID(w, r)
	if !ok {
		return
	}

	image, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	defer closeUpload(image)

	f := &form{r: r}
	req := &UpdateUserRequest{
		Username:    f.optStr("username"),
		PhoneNumber: f.optStr("phone_number"),
		Password:    f.optStr("password"),
		Province:    f.optInt("province"),
		City:        f.optInt("city"),
		FirstName:   f.optStr("first_name"),
		LastName:    f.optStr("last_name"),
		IsActive:    f.optBool("is_active"),
		IsStaff:     f.optBool("is_staff"),
		Image:       upload(image),
	}
	if f.err != nil {
		httputil.WriteError(w, f.err)
		return
	}
	if !httputil.Prepare(w, req, h.logger, ctx, requestID) {
		return
	}

	if _, err := h.service.UpdateUser(ctx, profileID, req.ToCommand()); err != nil {
		h.logger.ErrorContext(ctx, "update user failed", "error", err, "request_id", requestID, "profile_id", profileID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, msgUserUpdated)
}

func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	profileID, ok := parseProfileID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(ctx, profileID); err != nil {
		h.logger.ErrorContext(ctx, "delete user failed", "error", err, "request_id", requestID, "profile_id", profileID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, msgUserDeleted)
}

// uploadedFile is an open multipart file and its original name.
type uploadedFile struct {
	file   multipart.File
	header *multipart.FileHeader
}

// parseForm parses a multipart or urlencoded body and opens the optional
// "image" file. On failure it writes the response.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (*uploadedFile, bool) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.WarnContext(ctx, "failed to parse form", "error", err, "request_id", requestcontext.RequestID(ctx))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body too large"))
			return nil, false
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid form body"))
		return nil, false
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, true
	case err != nil:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid image upload"))
		return nil, false
	}
	return &uploadedFile{file: file, header: header}, true
}

func upload(f *uploadedFile) *asset.Upload {
	if f == nil {
		return nil
	}
	return &asset.Upload{Filename: f.header.Filename, Content: f.file}
}

func closeUpload(f *uploadedFile) {
	if f != nil {
		_ = f.file.Close()
	}
}

func parseProfileID(w http.ResponseWriter, r *http.Request) (id.ProfileID, bool) {
	profileID, err := id.ParseProfileID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return profileID, true
}
