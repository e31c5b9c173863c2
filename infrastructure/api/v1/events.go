package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	tracker "github.com/Unobtainiumrock/toy-problem-performance-analysis"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/jsonapi"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/middleware"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/v1/dto"
)

// EventsRouter accepts edit notifications from an external host.
type EventsRouter struct {
	client *tracker.Client
	logger *slog.Logger
}

// NewEventsRouter creates a new EventsRouter.
func NewEventsRouter(client *tracker.Client) *EventsRouter {
	return &EventsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for event endpoints.
func (r *EventsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Create)

	return router
}

// Create handles POST /api/v1/events.
//
//	@Summary		Report an edit
//	@Description	Notify the tracker that a sheet row was edited. For range edits send the top row.
//	@Tags			events
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.EditEventRequest	true	"Edit event"
//	@Success		202		{object}	jsonapi.Document
//	@Failure		400		{object}	jsonapi.Document
//	@Failure		401		{object}	jsonapi.Document
//	@Failure		503		{object}	jsonapi.Document
//	@Security		APIKeyAuth
//	@Router			/events [post]
func (r *EventsRouter) Create(w http.ResponseWriter, req *http.Request) {
	var body dto.EditEventRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "invalid request body", err), r.logger)
		return
	}
	// The name is matched exactly against the watched sheet, so it is only
	// trimmed to reject a blank value.
	if strings.TrimSpace(body.SheetName) == "" {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "sheet_name is required", nil), r.logger)
		return
	}

	event := workbook.NewEditEvent(body.SheetName, body.RowIndex)
	if err := r.client.Host.Notify(req.Context(), event); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	resource := jsonapi.NewResource(jsonapi.TypeEdit, body.SheetName+":"+strconv.Itoa(body.RowIndex), &jsonapi.EditAttributes{
		SheetName: event.SheetName,
		RowIndex:  event.RowIndex,
	})
	jsonapi.Write(w, http.StatusAccepted, jsonapi.NewSingleResponse(resource))
}
