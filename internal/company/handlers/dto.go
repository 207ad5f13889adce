package handlers

import (
	"time"

	"github.com/gartstein/companydir/internal/company/models"
)

// createCompanyRequest is the JSON body accepted by the create endpoint.
// IsActive is a pointer so an omitted value can default to true.
type createCompanyRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Industry     string   `json:"industry"`
	FoundedYear  int      `json:"foundedYear"`
	Location     []string `json:"location"`
	Website      string   `json:"website"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Employees    int      `json:"employees"`
	IsActive     *bool    `json:"isActive"`
	Logo         string   `json:"logo"`
	Headquarters string   `json:"headquarters"`
	Revenue      float64  `json:"revenue"`
}

func (r *createCompanyRequest) toModel() *models.Company {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.Company{
		Name:         r.Name,
		Description:  r.Description,
		Industry:     models.Industry(r.Industry),
		FoundedYear:  r.FoundedYear,
		Location:     r.Location,
		Website:      r.Website,
		Email:        r.Email,
		Phone:        r.Phone,
		Employees:    r.Employees,
		IsActive:     active,
		Logo:         r.Logo,
		Headquarters: r.Headquarters,
		Revenue:      r.Revenue,
	}
}

// companyResponse is the full wire representation of a company record.
type companyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Industry     string    `json:"industry"`
	FoundedYear  int       `json:"foundedYear,omitempty"`
	Location     []string  `json:"location"`
	Website      string    `json:"website,omitempty"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Employees    int       `json:"employees,omitempty"`
	IsActive     bool      `json:"isActive"`
	Logo         string    `json:"logo,omitempty"`
	Headquarters string    `json:"headquarters,omitempty"`
	Revenue      float64   `json:"revenue,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newCompanyResponse(c *models.Company) companyResponse {
	return companyResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Description:  c.Description,
		Industry:     string(c.Industry),
		FoundedYear:  c.FoundedYear,
		Location:     c.Location,
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

func newCompanyResponses(companies []*models.Company) []companyResponse {
	out := make([]companyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, newCompanyResponse(c))
	}
	return out
}

// companyDetail adds the derived age to the full representation. The age is
// computed on read and never persisted.
type companyDetail struct {
	companyResponse
	CompanyAge int `json:"companyAge"`
}

func newCompanyDetail(c *models.Company, now time.Time) companyDetail {
	return companyDetail{
		companyResponse: newCompanyResponse(c),
		CompanyAge:      c.Age(now),
	}
}

// companyListItem is the projection returned by the list endpoint.
type companyListItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Industry      string   `json:"industry"`
	FoundedYear   int      `json:"foundedYear,omitempty"`
	Location      []string `json:"location"`
	Website       string   `json:"website,omitempty"`
	IsActive      bool     `json:"isActive"`
	Logo          string   `json:"logo,omitempty"`
	EmployeeRange string   `json:"employeeRange"`
}

func newCompanyListItems(companies []*models.Company) []companyListItem {
	items := make([]companyListItem, 0, len(companies))
	for _, c := range companies {
		items = append(items, companyListItem{
			ID:            c.ID.String(),
			Name:          c.Name,
			Description:   c.Description,
			Industry:      string(c.Industry),
			FoundedYear:   c.FoundedYear,
			Location:      c.Location,
			Website:       c.Website,
			IsActive:      c.IsActive,
			Logo:          c.Logo,
			EmployeeRange: c.EmployeeRange(),
		})
	}
	return items
}
