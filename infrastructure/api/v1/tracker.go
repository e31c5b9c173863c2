// Package v1 provides the v1 API routes.
package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	tracker "github.com/Unobtainiumrock/toy-problem-performance-analysis"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/jsonapi"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/middleware"
)

// TrackerRouter handles tracker log endpoints.
type TrackerRouter struct {
	client     *tracker.Client
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewTrackerRouter creates a new TrackerRouter.
func NewTrackerRouter(client *tracker.Client) *TrackerRouter {
	return &TrackerRouter{
		client:     client,
		serializer: jsonapi.NewSerializer(),
		logger:     client.Logger(),
	}
}

// Routes returns the chi router for tracker endpoints.
func (r *TrackerRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.Get)
	router.Delete("/", r.Reset)

	return router
}

// Get handles GET /api/v1/tracker.
//
//	@Summary		Get tracker log
//	@Description	List the row indexes recorded since the last reset, in edit order
//	@Tags			tracker
//	@Produce		json
//	@Success		200	{object}	dto.TrackerResponse
//	@Failure		404	{object}	jsonapi.Document
//	@Failure		503	{object}	jsonapi.Document
//	@Router			/tracker [get]
func (r *TrackerRouter) Get(w http.ResponseWriter, req *http.Request) {
	entries, err := r.client.Log.Entries(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	jsonapi.Write(w, http.StatusOK, jsonapi.NewSingleResponse(
		r.serializer.TrackerResource(r.client.Log.Name(), entries),
	))
}

// Reset handles DELETE /api/v1/tracker.
//
//	@Summary		Reset tracker log
//	@Description	Delete every recorded entry, keeping the header row
//	@Tags			tracker
//	@Success		204
//	@Failure		401	{object}	jsonapi.Document
//	@Failure		404	{object}	jsonapi.Document
//	@Failure		503	{object}	jsonapi.Document
//	@Security		APIKeyAuth
//	@Router			/tracker [delete]
func (r *TrackerRouter) Reset(w http.ResponseWriter, req *http.Request) {
	if err := r.client.Reset.Reset(req.Context()); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
