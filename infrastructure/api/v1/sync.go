package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	tracker "github.com/Unobtainiumrock/toy-problem-performance-analysis"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/jsonapi"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/middleware"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/v1/dto"
)

// SyncRouter triggers the batch sync on demand.
type SyncRouter struct {
	client *tracker.Client
	logger *slog.Logger
}

// NewSyncRouter creates a new SyncRouter.
func NewSyncRouter(client *tracker.Client) *SyncRouter {
	return &SyncRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for sync endpoints.
func (r *SyncRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Run)

	return router
}

// Run handles POST /api/v1/sync.
//
//	@Summary		Run batch sync
//	@Description	Copy the rows named in the tracker log into the problem store and truncate the consumed entries
//	@Tags			sync
//	@Produce		json
//	@Success		200	{object}	dto.SyncResponse
//	@Failure		401	{object}	jsonapi.Document
//	@Failure		422	{object}	jsonapi.Document
//	@Failure		503	{object}	jsonapi.Document
//	@Security		APIKeyAuth
//	@Router			/sync [post]
func (r *SyncRouter) Run(w http.ResponseWriter, req *http.Request) {
	result, err := r.client.Sync.Run(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.SyncResponse{
		Data: dto.SyncData{
			Type: jsonapi.TypeSync,
			Attributes: dto.SyncAttributes{
				Entries:  result.Entries,
				Rows:     result.Rows,
				Ranges:   result.Ranges,
				Problems: result.Problems,
				Skipped:  result.Skipped,
			},
		},
	})
}
