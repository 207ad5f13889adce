// Package models defines the core domain models for the Company entity.
// It includes the Company record, the Industry enumeration, the partial
// update structure and the derived read-only attributes.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Industry classifies a company into one of a fixed set of sectors.
type Industry string

const (
	IndustryTechnology    Industry = "Technology"
	IndustryHealthcare    Industry = "Healthcare"
	IndustryFinance       Industry = "Finance"
	IndustryEducation     Industry = "Education"
	IndustryRetail        Industry = "Retail"
	IndustryManufacturing Industry = "Manufacturing"
	IndustryRealEstate    Industry = "Real Estate"
	IndustryHospitality   Industry = "Hospitality"
	IndustryEnergy        Industry = "Energy"
	IndustryOther         Industry = "Other"
)

// Industries returns every accepted industry value, in declaration order.
func Industries() []Industry {
	return []Industry{
		IndustryTechnology,
		IndustryHealthcare,
		IndustryFinance,
		IndustryEducation,
		IndustryRetail,
		IndustryManufacturing,
		IndustryRealEstate,
		IndustryHospitality,
		IndustryEnergy,
		IndustryOther,
	}
}

// Valid reports whether the value is a member of the industry enumeration.
func (i Industry) Valid() bool {
	for _, known := range Industries() {
		if i == known {
			return true
		}
	}
	return false
}

// Company defines the domain model for a company entity.
// A zero FoundedYear or Employees value means the field was not provided.
type Company struct {
	// ID is the unique identifier for the company.
	ID uuid.UUID
	// Name is the company's name, unique across all records.
	Name string
	// Description provides details about the company.
	Description string
	// Industry is the sector the company operates in.
	Industry Industry
	// FoundedYear is the year the company was founded.
	FoundedYear int
	// Location lists the places the company operates from, at least one.
	Location []string
	// Website is the company's URL, normalized to carry a protocol prefix.
	Website string
	// Email is the contact address, lowercased and unique across all records.
	Email string
	// Phone is the contact number.
	Phone string
	// Employees is the number of employees in the company.
	Employees int
	// IsActive indicates whether the company is currently operating.
	IsActive bool
	// Logo is a URL to the company's logo.
	Logo string
	// Headquarters names the company's main office.
	Headquarters string
	// Revenue is the reported annual revenue.
	Revenue float64
	// CreatedAt records the timestamp when the company was created.
	CreatedAt time.Time
	// UpdatedAt records the timestamp when the company was last updated.
	UpdatedAt time.Time
}

// Age derives the company age in years from the founding year. It returns 0
// when the founding year is unknown. Never persisted, computed on read.
func (c *Company) Age(now time.Time) int {
	if c.FoundedYear == 0 {
		return 0
	}
	age := now.Year() - c.FoundedYear
	if age < 0 {
		return 0
	}
	return age
}

// EmployeeRange buckets the employee count into a display label.
func (c *Company) EmployeeRange() string {
	switch {
	case c.Employees <= 0:
		return "Not specified"
	case c.Employees <= 10:
		return "1-10"
	case c.Employees <= 50:
		return "11-50"
	case c.Employees <= 200:
		return "51-200"
	case c.Employees <= 1000:
		return "201-1000"
	default:
		return "1000+"
	}
}

// CompanyUpdate represents the fields that can be changed on an existing
// Company. Pointer types distinguish "absent" from zero values; only the
// fields listed here may be modified after creation.
type CompanyUpdate struct {
	// ID is the unique identifier for the company to update.
	ID uuid.UUID
	// Logo is the new logo URL.
	Logo *string
	// Description is the new description.
	Description *string
	// Location is the replacement location list. A nil slice leaves the
	// stored list untouched.
	Location []string
	// Phone is the new contact number.
	Phone *string
	// IsActive is the updated operating status.
	IsActive *bool
}

// Empty reports whether the update carries no field at all.
func (u *CompanyUpdate) Empty() bool {
	return u.Logo == nil &&
		u.Description == nil &&
		u.Location == nil &&
		u.Phone == nil &&
		u.IsActive == nil
}
