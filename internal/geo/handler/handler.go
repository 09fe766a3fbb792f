package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"resa/internal/geo/models"
	"resa/internal/geo/service"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
	"resa/pkg/platform/httputil"
	"resa/pkg/requestcontext"
)

// Service defines the province and city operations used by the handler.
type Service interface {
	ListProvinces(ctx context.Context, name string) ([]*models.Province, error)
	GetProvince(ctx context.Context, provinceID id.ProvinceID) (*models.Province, error)
	CreateProvince(ctx context.Context, name string) (*models.Province, error)
	UpdateProvince(ctx context.Context, provinceID id.ProvinceID, name string) (*models.Province, error)
	DeleteProvince(ctx context.Context, provinceID id.ProvinceID) error
	ListCities(ctx context.Context, filter models.CityFilter) ([]*service.CityView, error)
	GetCity(ctx context.Context, cityID id.CityID) (*service.CityView, error)
	CreateCity(ctx context.Context, name string, provinceID id.ProvinceID) (*models.City, error)
	UpdateCity(ctx context.Context, cityID id.CityID, cmd service.UpdateCityCommand) (*models.City, error)
	DeleteCity(ctx context.Context, cityID id.CityID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the geography routes. Reads are public; writes go through
// admin, which must reject unprivileged callers before any lookup runs.
func (h *Handler) Register(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Route("/base", func(r chi.Router) {
		r.Get("/province", h.HandleListProvinces)
		r.Get("/province/{id}", h.HandleGetProvince)
		r.Get("/city", h.HandleListCities)
		r.Get("/city/{id}", h.HandleGetCity)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/province", h.HandleCreateProvince)
			r.Patch("/province/{id}", h.HandleUpdateProvince)
			r.Delete("/province/{id}", h.HandleDeleteProvince)
			r.Post("/city", h.HandleCreateCity)
			r.Patch("/city/{id}", h.HandleUpdateCity)
			r.Delete("/city/{id}", h.HandleDeleteCity)
		})
	})
}

func (h *Handler) HandleListProvinces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	list, err := h.service.ListProvinces(ctx, strings.TrimSpace(r.URL.Query().Get("name")))
	if err != nil {
		h.logger.ErrorContext(ctx, "list provinces failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProvinceListResponse(list))
}

func (h *Handler) HandleGetProvince(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	provinceID, ok := parseProvinceID(w, r)
	if !ok {
		return
	}

	p, err := h.service.GetProvince(ctx, provinceID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get province failed", "error", err, "request_id", requestID, "province_id", provinceID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProvinceResponse(p))
}

func (h *Handler) HandleCreateProvince(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ProvinceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if _, err := h.service.CreateProvince(ctx, req.Name); err != nil {
		h.logger.ErrorContext(ctx, "create province failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, msgProvinceCreated)
}

func (h *Handler) HandleUpdateProvince(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	provinceID, ok := parseProvinceID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[ProvinceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if _, err := h.service.UpdateProvince(ctx, provinceID, req.Name); err != nil {
		h.logger.ErrorContext(ctx, "update province failed", "error", err, "request_id", requestID, "province_id", provinceID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, msgProvinceUpdated)
}

func (h *Handler) HandleDeleteProvince(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	provinceID, ok := parseProvinceID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProvince(ctx, provinceID); err != nil {
		h.logger.ErrorContext(ctx, "delete province failed", "error", err, "request_id", requestID, "province_id", provinceID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, msgProvinceDeleted)
}

// HandleListCities accepts ?name= and ?province= filters.
func (h *Handler) HandleListCities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	filter := models.CityFilter{Name: strings.TrimSpace(r.URL.Query().Get("name"))}
	if raw := r.URL.Query().Get("province"); raw != "" {
		pid, err := id.ParseProvinceID(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid province filter"))
			return
		}
		filter.ProvinceID = pid
	}

	list, err := h.service.ListCities(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list cities failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCityListResponse(list))
}

func (h *Handler) HandleGetCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	cityID, ok := parseCityID(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetCity(ctx, cityID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get city failed", "error", err, "request_id", requestID, "city_id", cityID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCityResponse(view))
}

func (h *Handler) HandleCreateCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateCityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if _, err := h.service.CreateCity(ctx, req.Name, id.ProvinceID(req.ProvinceID)); err != nil {
		h.logger.ErrorContext(ctx, "create city failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, msgCityCreated)
}

func (h *Handler) HandleUpdateCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	cityID, ok := parseCityID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateCityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if _, err := h.service.UpdateCity(ctx, cityID, req.ToCommand()); err != nil {
		h.logger.ErrorContext(ctx, "update city failed", "error", err, "request_id", requestID, "city_id", cityID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, msgCityUpdated)
}

func (h *Handler) HandleDeleteCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	cityID, ok := parseCityID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCity(ctx, cityID); err != nil {
		h.logger.ErrorContext(ctx, "delete city failed", "error", err, "request_id", requestID, "city_id", cityID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, msgCityDeleted)
}

func parseProvinceID(w http.ResponseWriter, r *http.Request) (id.ProvinceID, bool) {
	provinceID, err := id.ParseProvinceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return provinceID, true
}

func parseCityID(w http.ResponseWriter, r *http.Request) (id.CityID, bool) {
	cityID, err := id.ParseCityID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return cityID, true
}
