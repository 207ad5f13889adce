// Package db implements the company repository on top of GORM. It owns the
// connection handle explicitly, translates driver errors into the domain
// taxonomy and applies search filters as SQL.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	dbmodels "github.com/gartstein/companydir/internal/company/db/models"
	e "github.com/gartstein/companydir/internal/company/errors"
	"github.com/gartstein/companydir/internal/company/models"
	"github.com/gartstein/companydir/internal/company/validation"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Repository is the single, explicitly owned handle to the company store.
type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewRepository connects to the database, retrying with exponential backoff
// while the server comes up, and runs the schema migration.
func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var repo *Repository
	connect := func() error {
		var err error
		repo, err = Open(postgres.Open(dsn))
		return err
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return repo, nil
}

// Open builds a Repository over the given dialector and runs the schema
// migration. Error translation is enabled so unique-index violations
// surface as gorm.ErrDuplicatedKey on every supported driver.
func Open(dialector gorm.Dialector) (*Repository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&dbmodels.Company{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Repository{db: db}, nil
}

// CreateCompany inserts a new company. A unique-index violation on name or
// email is reported as ErrDuplicate, the same outcome as the pre-check.
func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	record := toRecord(company)
	result := r.db.WithContext(ctx).Create(record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicate
		}
		return result.Error
	}
	fromRecord(record, company)
	return nil
}

// GetCompany retrieves a company by ID.
func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var record dbmodels.Company
	result := r.db.WithContext(ctx).First(&record, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	company := &models.Company{}
	fromRecord(&record, company)
	return company, nil
}

// ListCompanies returns a page of companies in store order.
func (r *Repository) ListCompanies(ctx context.Context, offset, limit int) ([]*models.Company, error) {
	var records []dbmodels.Company
	result := r.db.WithContext(ctx).Offset(offset).Limit(limit).Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return fromRecords(records), nil
}

// UpdateCompany applies a partial update by ID. Only the fields present on
// the update are touched; UpdatedAt is always refreshed.
func (r *Repository) UpdateCompany(ctx context.Context, id uuid.UUID, update *models.CompanyUpdate) error {
	fields := map[string]any{"updated_at": time.Now().UTC()}
	if update.Logo != nil {
		fields["logo"] = *update.Logo
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Location != nil {
		fields["locations"] = datatypes.NewJSONSlice(update.Location)
	}
	if update.Phone != nil {
		fields["phone"] = *update.Phone
	}
	if update.IsActive != nil {
		fields["is_active"] = *update.IsActive
	}

	result := r.db.WithContext(ctx).Model(&dbmodels.Company{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// DeleteCompany removes a company by ID. Hard delete, no tombstone.
func (r *Repository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&dbmodels.Company{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// CompanyExistsByNameOrEmail reports whether a record with exactly this name
// or email already exists. Used as the create pre-check; the unique indexes
// remain the correctness guarantee under concurrency.
func (r *Repository) CompanyExistsByNameOrEmail(ctx context.Context, name, email string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&dbmodels.Company{}).
		Where("name = ? OR email = ?", name, email).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// SearchCompanies returns every company satisfying the conjunction of the
// constraints present on the filter, in store order.
func (r *Repository) SearchCompanies(ctx context.Context, filter validation.Filter) ([]*models.Company, error) {
	query := r.db.WithContext(ctx).Model(&dbmodels.Company{})
	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", containsPattern(filter.Name))
	}
	if filter.Location != "" {
		// Coarse prefilter over the serialized list; the per-element check
		// below makes the final call.
		query = query.Where("LOWER(CAST(locations AS TEXT)) LIKE ? ESCAPE '\\'", containsPattern(filter.Location))
	}
	if filter.Industry != "" {
		query = query.Where("industry = ?", filter.Industry)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.MinEmployees != nil {
		query = query.Where("employees >= ?", *filter.MinEmployees)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.FoundedYear != nil {
		query = query.Where("founded_year = ?", *filter.FoundedYear)
	}

	var records []dbmodels.Company
	if result := query.Find(&records); result.Error != nil {
		return nil, result.Error
	}
	companies := fromRecords(records)
	if filter.Location != "" {
		filtered := companies[:0]
		for _, c := range companies {
			if matchesAnyLocation(c, filter.Location) {
				filtered = append(filtered, c)
			}
		}
		companies = filtered
	}
	return companies, nil
}

// FindByTerm returns companies whose name, industry or any location entry
// contains the term, case-insensitively. Backs the suggestion endpoint.
func (r *Repository) FindByTerm(ctx context.Context, term string) ([]*models.Company, error) {
	pattern := containsPattern(term)
	var records []dbmodels.Company
	result := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '\\'", pattern).
		Or("LOWER(industry) LIKE ? ESCAPE '\\'", pattern).
		Or("LOWER(CAST(locations AS TEXT)) LIKE ? ESCAPE '\\'", pattern).
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	companies := fromRecords(records)
	// The locations clause scans the serialized list, so a term made of the
	// serialization punctuation can match records whose fields do not
	// contain it. Settle each candidate against the actual field values.
	filtered := companies[:0]
	for _, c := range companies {
		if containsFold(c.Name, term) || containsFold(string(c.Industry), term) || matchesAnyLocation(c, term) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// Ping reports whether the store is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// likeEscaper neutralizes the LIKE metacharacters so a filter term matches
// literally. The clauses using the pattern declare backslash as the escape
// character, which sqlite does not assume by default.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func containsFold(value, term string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(term))
}

func matchesAnyLocation(c *models.Company, term string) bool {
	for _, loc := range c.Location {
		if containsFold(loc, term) {
			return true
		}
	}
	return false
}

func toRecord(c *models.Company) *dbmodels.Company {
	return &dbmodels.Company{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Industry:     string(c.Industry),
		FoundedYear:  c.FoundedYear,
		Locations:    datatypes.NewJSONSlice(c.Location),
		Website:      c.Website,
		Email:        c.Email,
		Phone:        c.Phone,
		Employees:    c.Employees,
		IsActive:     c.IsActive,
		Logo:         c.Logo,
		Headquarters: c.Headquarters,
		Revenue:      c.Revenue,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func fromRecord(record *dbmodels.Company, c *models.Company) {
	c.ID = record.ID
	c.Name = record.Name
	c.Description = record.Description
	c.Industry = models.Industry(record.Industry)
	c.FoundedYear = record.FoundedYear
	c.Location = record.Locations
	c.Website = record.Website
	c.Email = record.Email
	c.Phone = record.Phone
	c.Employees = record.Employees
	c.IsActive = record.IsActive
	c.Logo = record.Logo
	c.Headquarters = record.Headquarters
	c.Revenue = record.Revenue
	c.CreatedAt = record.CreatedAt
	c.UpdatedAt = record.UpdatedAt
}

func fromRecords(records []dbmodels.Company) []*models.Company {
	companies := make([]*models.Company, 0, len(records))
	for i := range records {
		company := &models.Company{}
		fromRecord(&records[i], company)
		companies = append(companies, company)
	}
	return companies
}
