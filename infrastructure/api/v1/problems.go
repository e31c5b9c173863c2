package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	tracker "github.com/Unobtainiumrock/toy-problem-performance-analysis"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/application/service"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/jsonapi"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/middleware"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/v1/dto"
)

// ProblemsRouter handles problem endpoints.
type ProblemsRouter struct {
	client     *tracker.Client
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewProblemsRouter creates a new ProblemsRouter.
func NewProblemsRouter(client *tracker.Client) *ProblemsRouter {
	return &ProblemsRouter{
		client:     client,
		serializer: jsonapi.NewSerializer(),
		logger:     client.Logger(),
	}
}

// Routes returns the chi router for problem endpoints.
func (r *ProblemsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Create)
	router.Get("/search", r.Search)
	router.Get("/{id}", r.Get)

	return router
}

// List handles GET /api/v1/problems.
//
//	@Summary		List problems
//	@Description	List synced problems ordered by spreadsheet row
//	@Tags			problems
//	@Produce		json
//	@Param			difficulty_level	query		string	false	"Filter by difficulty level"
//	@Param			problem_type		query		string	false	"Filter by problem type"
//	@Param			page				query		int		false	"Page number (default: 1)"
//	@Param			page_size			query		int		false	"Results per page (default: 20, max: 100)"
//	@Success		200					{object}	dto.ProblemListResponse
//	@Router			/problems [get]
func (r *ProblemsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	pagination := ParsePagination(req)

	filter := service.ProblemFilter{
		DifficultyLevel: req.URL.Query().Get("difficulty_level"),
		Type:            req.URL.Query().Get("problem_type"),
	}

	problems, err := r.client.Problems.List(ctx, filter, pagination.Options()...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	total, err := r.client.Problems.Count(ctx, filter)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	doc := jsonapi.NewListResponse(r.serializer.ProblemResources(problems))
	doc.Meta = PaginationMeta(pagination, total)
	doc.Links = PaginationLinks(req, pagination, total)
	jsonapi.Write(w, http.StatusOK, doc)
}

// Get handles GET /api/v1/problems/{id}.
//
//	@Summary		Get problem
//	@Tags			problems
//	@Produce		json
//	@Param			id	path		int	true	"Problem ID"
//	@Success		200	{object}	dto.ProblemResponse
//	@Failure		404	{object}	jsonapi.Document
//	@Router			/problems/{id} [get]
func (r *ProblemsRouter) Get(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "invalid problem id", err), r.logger)
		return
	}

	p, err := r.client.Problems.Get(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	jsonapi.Write(w, http.StatusOK, jsonapi.NewSingleResponse(r.serializer.ProblemResource(p)))
}

// Search handles GET /api/v1/problems/search.
//
//	@Summary		Search problems
//	@Description	Case-insensitive substring match on the problem name
//	@Tags			problems
//	@Produce		json
//	@Param			problem_name	query		string	true	"Name fragment"
//	@Success		200				{object}	dto.ProblemListResponse
//	@Failure		404				{object}	jsonapi.Document
//	@Router			/problems/search [get]
func (r *ProblemsRouter) Search(w http.ResponseWriter, req *http.Request) {
	name := req.URL.Query().Get("problem_name")
	if strings.TrimSpace(name) == "" {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "problem_name is required", nil), r.logger)
		return
	}

	problems, err := r.client.Problems.Search(req.Context(), name)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	jsonapi.Write(w, http.StatusOK, jsonapi.NewListResponse(r.serializer.ProblemResources(problems)))
}

// Create handles POST /api/v1/problems.
//
//	@Summary		Create problem
//	@Tags			problems
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.ProblemCreateRequest	true	"Problem"
//	@Success		201		{object}	dto.ProblemResponse
//	@Failure		400		{object}	jsonapi.Document
//	@Failure		401		{object}	jsonapi.Document
//	@Failure		409		{object}	jsonapi.Document
//	@Security		APIKeyAuth
//	@Router			/problems [post]
func (r *ProblemsRouter) Create(w http.ResponseWriter, req *http.Request) {
	var body dto.ProblemCreateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "invalid request body", err), r.logger)
		return
	}
	if missing := body.Missing(); len(missing) > 0 {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "), nil), r.logger)
		return
	}

	p, err := problem.NewProblem(body.SpreadsheetRowID, problem.Fields{
		Name:                  body.ProblemName,
		Type:                  body.ProblemType,
		DifficultyLevel:       body.DifficultyLevel,
		Link:                  body.ProblemLink,
		HTMLLink:              body.ProblemHTMLLink,
		CompletionTimeMinutes: body.CompletionTimeMinutes,
		SolutionLink:          body.SolutionLink,
		RuntimeComplexity:     body.SolutionRuntimeComplexity,
		SpaceComplexity:       body.SolutionSpaceComplexity,
		ComplexityExplanation: body.ComplexityExplanation,
		FoundOptimalSolution:  body.FoundOptimalSolution,
	})
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	saved, err := r.client.Problems.Create(req.Context(), p)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	jsonapi.Write(w, http.StatusCreated, jsonapi.NewSingleResponse(r.serializer.ProblemResource(saved)))
}
