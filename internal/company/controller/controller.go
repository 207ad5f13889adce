// Package controller implements the business logic for the company
// resource: validation ordering, duplicate pre-checks, pagination policy
// and event production around repository operations.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	e "github.com/gartstein/companydir/internal/company/errors"
	"github.com/gartstein/companydir/internal/company/events"
	"github.com/gartstein/companydir/internal/company/models"
	"github.com/gartstein/companydir/internal/company/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pagination policy for the list operation. Limits above MaxPageSize are
// clamped rather than rejected.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type EventProducer interface {
	Produce(eventType events.EventType, company *models.Company)
}

// Repository defines the storage interface for Company objects.
type Repository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ListCompanies(ctx context.Context, offset, limit int) ([]*models.Company, error)
	UpdateCompany(ctx context.Context, id uuid.UUID, update *models.CompanyUpdate) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	CompanyExistsByNameOrEmail(ctx context.Context, name, email string) (bool, error)
	SearchCompanies(ctx context.Context, filter validation.Filter) ([]*models.Company, error)
	FindByTerm(ctx context.Context, term string) ([]*models.Company, error)
	Ping(ctx context.Context) error
	Close() error
}

// CompanyService provides methods to manage companies via repository
// operations and event production.
type CompanyService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewCompanyService constructs a CompanyService with a repository,
// an event producer, and a logger.
func NewCompanyService(repo Repository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// CreateCompany adds a new Company. Field-shape violations are collected and
// reported together; then the name/email duplicate pre-check runs, then the
// industry enum check, and only after all pass does the insert happen. A
// uniqueness violation raised by the store itself (a lost race) surfaces as
// the same duplicate error as the pre-check.
func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	validation.Normalize(company)
	if err := validation.ValidateCreate(company, time.Now()); err != nil {
		return nil, err
	}

	exists, err := s.repo.CompanyExistsByNameOrEmail(ctx, company.Name, company.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing company: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicate
	}

	if err := validation.ValidateIndustry(company.Industry); err != nil {
		return nil, err
	}

	company.ID = uuid.New()
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		if errors.Is(err, e.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	go func() {
		s.producer.Produce(events.CompanyCreated, company)
	}()
	return company, nil
}

// GetCompany retrieves a Company by ID, returning an error if not found.
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// ListCompanies returns one page of companies in store order. Non-positive
// page and limit values fall back to the defaults.
func (s *CompanyService) ListCompanies(ctx context.Context, page, limit int) ([]*models.Company, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	companies, err := s.repo.ListCompanies(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// UpdateCompany applies an allow-listed partial update, then fetches the
// updated record for returning and event production.
func (s *CompanyService) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid company ID", e.ErrInvalidInput)
	}
	if update.Empty() {
		return nil, e.ErrNoFieldsProvided
	}

	if err := s.repo.UpdateCompany(ctx, update.ID, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	updated, err := s.repo.GetCompany(ctx, update.ID)
	if err != nil {
		s.logger.Error("failed to get company after update",
			zap.Error(err),
			zap.String("company_id", update.ID.String()),
		)
		return nil, err
	}
	go func() {
		s.producer.Produce(events.CompanyUpdated, updated)
	}()
	return updated, nil
}

// DeleteCompany removes a Company by ID and fires a deletion event carrying
// the last known snapshot.
func (s *CompanyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get company for deletion: %w", err)
	}

	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	go func() {
		s.producer.Produce(events.CompanyDeleted, company)
	}()
	return nil
}

// SearchCompanies returns the companies satisfying every constraint present
// on the filter.
func (s *CompanyService) SearchCompanies(ctx context.Context, filter validation.Filter) ([]*models.Company, error) {
	companies, err := s.repo.SearchCompanies(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}
	return companies, nil
}

// SuggestCompanies returns the deduplicated field values matching the free
// text query across name, industry and location entries.
func (s *CompanyService) SuggestCompanies(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, e.ErrBadQuery
	}
	companies, err := s.repo.FindByTerm(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}
	return validation.CollectSuggestions(companies, query), nil
}

// Status reports whether the persistence layer is reachable.
func (s *CompanyService) Status(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
