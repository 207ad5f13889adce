// Package validation implements the input-validation rules for the company
// resource as pure functions over plain data structures, independent of the
// storage technology. Create validation collects every violation before
// failing so a request is reported against all of its problems at once.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	e "github.com/gartstein/companydir/internal/company/errors"
	"github.com/gartstein/companydir/internal/company/models"
)

const (
	MaxNameLength         = 100
	MaxDescriptionLength  = 1000
	MaxLocationLength     = 200
	MaxHeadquartersLength = 200
	MinFoundedYear        = 1800
	MinEmployees          = 1
	MaxEmployees          = 10_000_000
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	// phonePattern is checked against the number with separators stripped.
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

// Normalize trims the free-text fields, lowercases the email and gives the
// website a protocol prefix when it lacks one. Mutates the company in place.
func Normalize(c *models.Company) {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Headquarters = strings.TrimSpace(c.Headquarters)
	c.Website = NormalizeWebsite(c.Website)
	for i := range c.Location {
		c.Location[i] = strings.TrimSpace(c.Location[i])
	}
}

// NormalizeWebsite prefixes the URL with https:// when no protocol is present.
func NormalizeWebsite(url string) string {
	url = strings.TrimSpace(url)
	if url == "" || strings.Contains(url, "://") {
		return url
	}
	return "https://" + url
}

// ValidateCreate checks the field-shape constraints for a new company and
// returns a ValidationError listing every violation found. Uniqueness and
// enum membership are checked separately, after this passes.
func ValidateCreate(c *models.Company, now time.Time) error {
	var violations []string

	// Length limits count characters, not bytes, so multibyte names within
	// the limit pass.
	if c.Name == "" {
		violations = append(violations, "name is required")
	} else if utf8.RuneCountInString(c.Name) > MaxNameLength {
		violations = append(violations, fmt.Sprintf("name must be at most %d characters", MaxNameLength))
	}

	if c.Email == "" {
		violations = append(violations, "email is required")
	} else if !emailPattern.MatchString(c.Email) {
		violations = append(violations, "email must be a valid email address")
	}

	if c.Industry == "" {
		violations = append(violations, "industry is required")
	}

	if len(c.Location) == 0 {
		violations = append(violations, "at least one location is required")
	} else {
		for _, loc := range c.Location {
			if strings.TrimSpace(loc) == "" {
				violations = append(violations, "at least one location is required")
				break
			}
			if utf8.RuneCountInString(loc) > MaxLocationLength {
				violations = append(violations, fmt.Sprintf("each location must be at most %d characters", MaxLocationLength))
				break
			}
		}
	}

	if utf8.RuneCountInString(c.Description) > MaxDescriptionLength {
		violations = append(violations, fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength))
	}
	if utf8.RuneCountInString(c.Headquarters) > MaxHeadquartersLength {
		violations = append(violations, fmt.Sprintf("headquarters must be at most %d characters", MaxHeadquartersLength))
	}
	if c.FoundedYear != 0 && (c.FoundedYear < MinFoundedYear || c.FoundedYear > now.Year()) {
		violations = append(violations, fmt.Sprintf("foundedYear must be between %d and %d", MinFoundedYear, now.Year()))
	}
	if c.Employees != 0 && (c.Employees < MinEmployees || c.Employees > MaxEmployees) {
		violations = append(violations, fmt.Sprintf("employees must be between %d and %d", MinEmployees, MaxEmployees))
	}
	if c.Revenue < 0 {
		violations = append(violations, "revenue must not be negative")
	}
	if c.Phone != "" && !phonePattern.MatchString(phoneSeparators.Replace(c.Phone)) {
		violations = append(violations, "phone must be a valid phone number")
	}

	return e.NewValidationError(violations)
}

// ValidateIndustry checks enum membership, naming the allowed values in the
// violation so clients can correct the request.
func ValidateIndustry(industry models.Industry) error {
	if industry.Valid() {
		return nil
	}
	allowed := make([]string, 0, len(models.Industries()))
	for _, i := range models.Industries() {
		allowed = append(allowed, string(i))
	}
	return e.NewValidationError([]string{
		fmt.Sprintf("industry must be one of: %s", strings.Join(allowed, ", ")),
	})
}

// BuildUpdate retains only the allow-listed keys of a raw update body:
// logo, description, location, phone and isActive. Values of the wrong JSON
// type are treated as absent; the stored field constraints apply at
// persistence time. Fails with ErrNoFieldsProvided when nothing remains.
func BuildUpdate(body map[string]any) (*models.CompanyUpdate, error) {
	update := &models.CompanyUpdate{}
	for key, raw := range body {
		switch key {
		case "logo":
			if s, ok := raw.(string); ok {
				update.Logo = &s
			}
		case "description":
			if s, ok := raw.(string); ok {
				update.Description = &s
			}
		case "location":
			entries, ok := raw.([]any)
			if !ok {
				continue
			}
			locations := make([]string, 0, len(entries))
			for _, entry := range entries {
				if s, ok := entry.(string); ok && strings.TrimSpace(s) != "" {
					locations = append(locations, s)
				}
			}
			// An empty list would break the at-least-one-location
			// invariant, so it counts as not provided.
			if len(locations) > 0 {
				update.Location = locations
			}
		case "phone":
			if s, ok := raw.(string); ok {
				update.Phone = &s
			}
		case "isActive":
			if b, ok := raw.(bool); ok {
				update.IsActive = &b
			}
		}
	}
	if update.Empty() {
		return nil, e.ErrNoFieldsProvided
	}
	return update, nil
}
