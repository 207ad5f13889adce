// Package handlers exposes the company service over REST, translating
// between JSON bodies, query parameters and the domain model, and wrapping
// every outcome in the uniform response envelope.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gartstein/companydir/internal/company/models"
	"github.com/gartstein/companydir/internal/company/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyController defines the business logic interface the REST handlers
// invoke.
type CompanyController interface {
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ListCompanies(ctx context.Context, page, limit int) ([]*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	SearchCompanies(ctx context.Context, filter validation.Filter) ([]*models.Company, error)
	SuggestCompanies(ctx context.Context, query string) ([]string, error)
	Status(ctx context.Context) error
}

// CompanyHandler maps HTTP requests onto a CompanyController. In
// development mode internal failures carry the raw error in the envelope;
// in every other mode they carry only a generic message.
type CompanyHandler struct {
	service     CompanyController
	logger      *zap.Logger
	development bool
}

// NewCompanyHandler constructs a CompanyHandler with the given service and logger.
func NewCompanyHandler(service CompanyController, logger *zap.Logger, development bool) *CompanyHandler {
	return &CompanyHandler{
		service:     service,
		logger:      logger.Named("http_handler"),
		development: development,
	}
}

// Create handles POST /companies.
func (h *CompanyHandler) Create(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond(c, NewEnvelope(http.StatusBadRequest, "Invalid request body").
			WithErrors([]string{"request body must be valid JSON"}))
		return
	}

	created, err := h.service.CreateCompany(c.Request.Context(), req.toModel())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, NewEnvelope(http.StatusCreated, "Company created successfully").
		WithData(newCompanyResponse(created)))
}

// List handles GET /companies with page/limit pagination.
func (h *CompanyHandler) List(c *gin.Context) {
	page := intQuery(c, "page", 0)
	limit := intQuery(c, "limit", 0)

	companies, err := h.service.ListCompanies(c.Request.Context(), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, NewEnvelope(http.StatusOK, "Companies retrieved successfully").
		WithData(newCompanyListItems(companies)))
}

// Get handles GET /companies/:id, adding the derived company age.
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := h.companyID(c)
	if !ok {
		return
	}
	company, err := h.service.GetCompany(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, NewEnvelope(http.StatusOK, "Company retrieved successfully").
		WithData(newCompanyDetail(company, time.Now())))
}

// Update handles PATCH /companies/:id. Only allow-listed fields survive.
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := h.companyID(c)
	if !ok {
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respond(c, NewEnvelope(http.StatusBadRequest, "Invalid request body").
			WithErrors([]string{"request body must be valid JSON"}))
		return
	}

	update, err := validation.BuildUpdate(body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	update.ID = id

	updated, err := h.service.UpdateCompany(c.Request.Context(), update)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, NewEnvelope(http.StatusOK, "Company updated successfully").
		WithData(newCompanyResponse(updated)))
}

// Delete handles DELETE /companies/:id.
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := h.companyID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCompany(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, NewEnvelope(http.StatusOK, "Company deleted successfully"))
}

// Suggest handles GET /companies/search/suggestions.
func (h *CompanyHandler) Suggest(c *gin.Context) {
	suggestions, err := h.service.SuggestCompanies(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, NewEnvelope(http.StatusOK, "Suggestions retrieved successfully").
		WithData(suggestions))
}

// Search handles GET /companies/search, applying the conjunction of the
// present query parameters.
func (h *CompanyHandler) Search(c *gin.Context) {
	filter := validation.BuildFilter(c.Request.URL.Query())
	companies, err := h.service.SearchCompanies(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, NewEnvelope(http.StatusOK, "Companies retrieved successfully").
		WithData(newCompanyResponses(companies)))
}

// Health handles GET /health, reporting store reachability.
func (h *CompanyHandler) Health(c *gin.Context) {
	if err := h.service.Status(c.Request.Context()); err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		h.respond(c, NewEnvelope(http.StatusServiceUnavailable, "Service unhealthy").
			WithErrors([]string{"database unreachable"}))
		return
	}
	h.respond(c, NewEnvelope(http.StatusOK, "Service healthy"))
}

func (h *CompanyHandler) companyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respond(c, NewEnvelope(http.StatusBadRequest, "Invalid company ID").
			WithErrors([]string{"id must be a valid UUID"}))
		return uuid.Nil, false
	}
	return id, true
}

func (h *CompanyHandler) respond(c *gin.Context, envelope Envelope) {
	c.JSON(envelope.StatusCode, envelope.WithPath(c.Request.URL.Path))
}

func (h *CompanyHandler) respondError(c *gin.Context, err error) {
	status := statusForError(err)
	envelope := NewEnvelope(status, messageForError(err)).
		WithErrors(detailsForError(err))

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		if h.development {
			envelope = envelope.WithErrors([]string{err.Error()})
		}
	}
	h.respond(c, envelope)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
