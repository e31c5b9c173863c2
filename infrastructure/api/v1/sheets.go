package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	tracker "github.com/Unobtainiumrock/toy-problem-performance-analysis"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/jsonapi"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/middleware"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/v1/dto"
)

// maxRowsPerRequest bounds the rows returned by one range read.
const maxRowsPerRequest = 1000

// SheetsRouter exposes the workbook. Writes go through the host, so they
// raise the same edit notifications as any other edit.
type SheetsRouter struct {
	client     *tracker.Client
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewSheetsRouter creates a new SheetsRouter.
func NewSheetsRouter(client *tracker.Client) *SheetsRouter {
	return &SheetsRouter{
		client:     client,
		serializer: jsonapi.NewSerializer(),
		logger:     client.Logger(),
	}
}

// Routes returns the chi router for sheet endpoints.
func (r *SheetsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Get("/{name}/rows", r.ListRows)
	router.Post("/{name}/rows", r.AppendRow)
	router.Put("/{name}/rows/{row}", r.SetRow)

	return router
}

// List handles GET /api/v1/sheets.
//
//	@Summary		List sheets
//	@Tags			sheets
//	@Produce		json
//	@Success		200	{object}	dto.SheetListResponse
//	@Router			/sheets [get]
func (r *SheetsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	names, err := r.client.SheetNames(ctx)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	wb := r.client.Host.Workbook()
	resources := make([]*jsonapi.Resource, 0, len(names))
	for _, name := range names {
		sheet, err := wb.SheetByName(ctx, name)
		if err != nil {
			middleware.WriteError(w, req, err, r.logger)
			return
		}
		last, err := sheet.LastRow(ctx)
		if err != nil {
			middleware.WriteError(w, req, err, r.logger)
			return
		}
		resources = append(resources, r.serializer.SheetResource(name, last))
	}

	jsonapi.Write(w, http.StatusOK, jsonapi.NewListResponse(resources))
}

// ListRows handles GET /api/v1/sheets/{name}/rows.
//
//	@Summary		Read rows
//	@Description	Read rows start..end inclusive. Defaults to the whole sheet.
//	@Tags			sheets
//	@Produce		json
//	@Param			name	path		string	true	"Sheet name"
//	@Param			start	query		int		false	"First row (default: 1)"
//	@Param			end		query		int		false	"Last row (default: last populated row)"
//	@Success		200		{object}	dto.RowListResponse
//	@Failure		400		{object}	jsonapi.Document
//	@Failure		404		{object}	jsonapi.Document
//	@Router			/sheets/{name}/rows [get]
func (r *SheetsRouter) ListRows(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	name := chi.URLParam(req, "name")

	sheet, err := r.client.Host.Workbook().SheetByName(ctx, name)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	last, err := sheet.LastRow(ctx)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	start, err := intParam(req, "start", 1)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	end, err := intParam(req, "end", last)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if end-start+1 > maxRowsPerRequest {
		end = start + maxRowsPerRequest - 1
	}

	rows := [][]string{}
	if end >= start {
		rows, err = sheet.Rows(ctx, start, end)
		if err != nil {
			middleware.WriteError(w, req, err, r.logger)
			return
		}
	}

	doc := jsonapi.NewListResponse(r.serializer.RowResources(name, start, rows))
	doc.Meta = jsonapi.Meta{"last_row": last}
	jsonapi.Write(w, http.StatusOK, doc)
}

// AppendRow handles POST /api/v1/sheets/{name}/rows.
//
//	@Summary		Append row
//	@Description	Append a row, creating the sheet if needed, and raise an edit for it
//	@Tags			sheets
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string				true	"Sheet name"
//	@Param			body	body		dto.RowWriteRequest	true	"Row cells"
//	@Success		201		{object}	dto.RowResponse
//	@Failure		400		{object}	jsonapi.Document
//	@Failure		401		{object}	jsonapi.Document
//	@Failure		503		{object}	jsonapi.Document
//	@Security		APIKeyAuth
//	@Router			/sheets/{name}/rows [post]
func (r *SheetsRouter) AppendRow(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")

	var body dto.RowWriteRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "invalid request body", err), r.logger)
		return
	}

	index, err := r.client.Host.AppendRow(req.Context(), name, body.Cells)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	resources := r.serializer.RowResources(name, index, [][]string{body.Cells})
	jsonapi.Write(w, http.StatusCreated, jsonapi.NewSingleResponse(resources[0]))
}

// SetRow handles PUT /api/v1/sheets/{name}/rows/{row}.
//
//	@Summary		Replace row
//	@Description	Replace the cells of a row, creating the sheet if needed, and raise an edit for it. Empty cells clear the row.
//	@Tags			sheets
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string				true	"Sheet name"
//	@Param			row		path		int					true	"Row index (1-based)"
//	@Param			body	body		dto.RowWriteRequest	true	"Row cells"
//	@Success		200		{object}	dto.RowResponse
//	@Failure		400		{object}	jsonapi.Document
//	@Failure		401		{object}	jsonapi.Document
//	@Failure		503		{object}	jsonapi.Document
//	@Security		APIKeyAuth
//	@Router			/sheets/{name}/rows/{row} [put]
func (r *SheetsRouter) SetRow(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")

	index, err := strconv.Atoi(chi.URLParam(req, "row"))
	if err != nil || index < 1 {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "row must be a positive integer", err), r.logger)
		return
	}

	var body dto.RowWriteRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "invalid request body", err), r.logger)
		return
	}

	if err := r.client.Host.SetRow(req.Context(), name, index, body.Cells); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	resources := r.serializer.RowResources(name, index, [][]string{body.Cells})
	jsonapi.Write(w, http.StatusOK, jsonapi.NewSingleResponse(resources[0]))
}

func intParam(req *http.Request, key string, fallback int) (int, error) {
	raw := req.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, middleware.NewAPIError(http.StatusBadRequest, key+" must be a positive integer", err)
	}
	return n, nil
}
