package db

import (
	"context"
	"net/url"
	"testing"
	"time"

	e "github.com/gartstein/companydir/internal/company/errors"
	"github.com/gartstein/companydir/internal/company/models"
	"github.com/gartstein/companydir/internal/company/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// SetupTestDB initializes an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *Repository {
	repo, err := Open(sqlite.Open(":memory:"))
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func testCompany(name, email string) *models.Company {
	return &models.Company{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Industry: models.IndustryTechnology,
		Location: []string{"New York"},
		IsActive: true,
	}
}

func TestCreateAndGetCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := testCompany("Test Company", "test@example.com")
	company.FoundedYear = 2001
	company.Location = []string{"New York", "Berlin"}

	require.NoError(t, repo.CreateCompany(ctx, company))

	retrieved, err := repo.GetCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, company.Name, retrieved.Name)
	assert.Equal(t, company.Email, retrieved.Email)
	assert.Equal(t, []string{"New York", "Berlin"}, retrieved.Location)
	assert.Equal(t, 2001, retrieved.FoundedYear)
	assert.True(t, retrieved.IsActive)
	assert.False(t, retrieved.CreatedAt.IsZero(), "store sets createdAt")
}

func TestGetCompany_NotFound(t *testing.T) {
	repo := SetupTestDB(t)

	_, err := repo.GetCompany(context.Background(), uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestCreateCompany_DuplicateName(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateCompany(ctx, testCompany("Unique Co", "first@example.com")))

	err := repo.CreateCompany(ctx, testCompany("Unique Co", "second@example.com"))
	assert.ErrorIs(t, err, e.ErrDuplicate, "unique index on name is the final arbiter")
}

func TestCreateCompany_DuplicateEmail(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateCompany(ctx, testCompany("First Co", "same@example.com")))

	err := repo.CreateCompany(ctx, testCompany("Second Co", "same@example.com"))
	assert.ErrorIs(t, err, e.ErrDuplicate)
}

func TestCompanyExistsByNameOrEmail(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateCompany(ctx, testCompany("Known Co", "known@example.com")))

	tests := []struct {
		name     string
		qName    string
		qEmail   string
		expected bool
	}{
		{"matching name", "Known Co", "other@example.com", true},
		{"matching email", "Other Co", "known@example.com", true},
		{"no match", "Other Co", "other@example.com", false},
		{"substring does not match", "Known", "know@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := repo.CompanyExistsByNameOrEmail(ctx, tt.qName, tt.qEmail)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, exists)
		})
	}
}

func TestUpdateCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := testCompany("Update Co", "update@example.com")
	require.NoError(t, repo.CreateCompany(ctx, company))

	description := "fresh description"
	inactive := false
	update := &models.CompanyUpdate{
		Description: &description,
		Location:    []string{"Madrid"},
		IsActive:    &inactive,
	}
	require.NoError(t, repo.UpdateCompany(ctx, company.ID, update))

	updated, err := repo.GetCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "fresh description", updated.Description)
	assert.Equal(t, []string{"Madrid"}, updated.Location)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Update Co", updated.Name, "fields outside the update stay untouched")
}

func TestUpdateCompany_NotFound(t *testing.T) {
	repo := SetupTestDB(t)

	phone := "+1234567890"
	err := repo.UpdateCompany(context.Background(), uuid.New(), &models.CompanyUpdate{Phone: &phone})
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestDeleteCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := testCompany("Delete Co", "delete@example.com")
	require.NoError(t, repo.CreateCompany(ctx, company))

	require.NoError(t, repo.DeleteCompany(ctx, company.ID))

	_, err := repo.GetCompany(ctx, company.ID)
	assert.ErrorIs(t, err, e.ErrNotFound, "hard delete leaves no record behind")

	assert.ErrorIs(t, repo.DeleteCompany(ctx, company.ID), e.ErrNotFound)
}

func TestListCompanies_Pagination(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	names := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}
	for i, name := range names {
		c := testCompany(name, name+"@example.com")
		c.Employees = (i + 1) * 10
		require.NoError(t, repo.CreateCompany(ctx, c))
	}

	first, err := repo.ListCompanies(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := repo.ListCompanies(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.NotEqual(t, first[0].ID, second[0].ID)

	tail, err := repo.ListCompanies(ctx, 4, 2)
	require.NoError(t, err)
	assert.Len(t, tail, 1)
}

func seedSearchData(t *testing.T, repo *Repository) {
	ctx := context.Background()
	companies := []*models.Company{
		{
			ID: uuid.New(), Name: "Acme Robotics", Email: "acme@example.com",
			Industry: models.IndustryTechnology, Location: []string{"New York", "Berlin"},
			Employees: 120, FoundedYear: 1999, IsActive: true,
		},
		{
			ID: uuid.New(), Name: "Globex Health", Email: "globex@example.com",
			Industry: models.IndustryHealthcare, Location: []string{"Boston"},
			Employees: 30, FoundedYear: 2010, IsActive: true,
		},
		{
			ID: uuid.New(), Name: "Initech Systems", Email: "initech@example.com",
			Industry: models.IndustryTechnology, Location: []string{"Austin"},
			Employees: 15, FoundedYear: 1999, IsActive: false,
		},
	}
	for _, c := range companies {
		require.NoError(t, repo.CreateCompany(ctx, c))
	}
}

func TestSearchCompanies_Conjunction(t *testing.T) {
	repo := SetupTestDB(t)
	seedSearchData(t, repo)
	ctx := context.Background()

	params := url.Values{}
	params.Set("industry", "Technology")
	params.Set("employees", "50")
	found, err := repo.SearchCompanies(ctx, validation.BuildFilter(params))
	require.NoError(t, err)
	require.Len(t, found, 1, "only records matching industry AND employees>=50")
	assert.Equal(t, "Acme Robotics", found[0].Name)

	// Dropping one parameter removes that constraint without affecting the other.
	params.Del("employees")
	found, err = repo.SearchCompanies(ctx, validation.BuildFilter(params))
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestSearchCompanies_Filters(t *testing.T) {
	repo := SetupTestDB(t)
	seedSearchData(t, repo)
	ctx := context.Background()

	tests := []struct {
		name     string
		params   map[string]string
		expected []string
	}{
		{
			name:     "name substring is case-insensitive",
			params:   map[string]string{"name": "acme"},
			expected: []string{"Acme Robotics"},
		},
		{
			name:     "location substring matches any entry",
			params:   map[string]string{"location": "berlin"},
			expected: []string{"Acme Robotics"},
		},
		{
			name:     "industry matches exactly",
			params:   map[string]string{"industry": "Healthcare"},
			expected: []string{"Globex Health"},
		},
		{
			name:     "isActive false",
			params:   map[string]string{"isActive": "no"},
			expected: []string{"Initech Systems"},
		},
		{
			name:     "foundedYear exact",
			params:   map[string]string{"foundedYear": "1999"},
			expected: []string{"Acme Robotics", "Initech Systems"},
		},
		{
			name:     "no constraints returns everything",
			params:   map[string]string{},
			expected: []string{"Acme Robotics", "Globex Health", "Initech Systems"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := url.Values{}
			for k, v := range tt.params {
				params.Set(k, v)
			}
			found, err := repo.SearchCompanies(ctx, validation.BuildFilter(params))
			require.NoError(t, err)
			names := make([]string, 0, len(found))
			for _, c := range found {
				names = append(names, c.Name)
			}
			assert.ElementsMatch(t, tt.expected, names)
		})
	}
}

func TestSearchCompanies_LikeMetacharacters(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	seed := []*models.Company{
		testCompany("Plain Name", "plain@example.com"),
		testCompany("100% Organic", "organic@example.com"),
		testCompany("under_score Co", "underscore@example.com"),
	}
	for _, c := range seed {
		require.NoError(t, repo.CreateCompany(ctx, c))
	}

	tests := []struct {
		name     string
		term     string
		expected []string
	}{
		{
			name:     "percent matches only literal percent",
			term:     "%",
			expected: []string{"100% Organic"},
		},
		{
			name:     "underscore matches only literal underscore",
			term:     "_",
			expected: []string{"under_score Co"},
		},
		{
			name:     "percent inside a term stays literal",
			term:     "100% org",
			expected: []string{"100% Organic"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.SearchCompanies(ctx, validation.Filter{Name: tt.term})
			require.NoError(t, err)
			names := make([]string, 0, len(found))
			for _, c := range found {
				names = append(names, c.Name)
			}
			assert.ElementsMatch(t, tt.expected, names)
		})
	}
}

func TestSearchCompanies_LocationPunctuation(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	c := testCompany("Two Cities", "cities@example.com")
	c.Location = []string{"New York", "Berlin"}
	require.NoError(t, repo.CreateCompany(ctx, c))

	// Terms made of the list's serialization punctuation must not match a
	// record whose entries do not contain them.
	for _, term := range []string{`"`, `","`, "[", "]"} {
		found, err := repo.SearchCompanies(ctx, validation.Filter{Location: term})
		require.NoError(t, err)
		assert.Empty(t, found, "term %q", term)
	}

	found, err := repo.SearchCompanies(ctx, validation.Filter{Location: "berlin"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestSearchCompanies_CreatedAfter(t *testing.T) {
	repo := SetupTestDB(t)
	seedSearchData(t, repo)
	ctx := context.Background()

	cutoff := time.Now().Add(-time.Hour)
	filter := validation.Filter{CreatedAfter: &cutoff}
	found, err := repo.SearchCompanies(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, found, 3, "all rows were created after the cutoff")

	future := time.Now().Add(time.Hour)
	filter = validation.Filter{CreatedAfter: &future}
	found, err = repo.SearchCompanies(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindByTerm(t *testing.T) {
	repo := SetupTestDB(t)
	seedSearchData(t, repo)
	ctx := context.Background()

	tests := []struct {
		term     string
		expected []string
	}{
		{"acme", []string{"Acme Robotics"}},
		{"technology", []string{"Acme Robotics", "Initech Systems"}},
		{"boston", []string{"Globex Health"}},
		{"nowhere", nil},
		{"%", nil},
		{`"`, nil},
		{`","`, nil},
	}
	for _, tt := range tests {
		found, err := repo.FindByTerm(ctx, tt.term)
		require.NoError(t, err)
		names := make([]string, 0, len(found))
		for _, c := range found {
			names = append(names, c.Name)
		}
		assert.ElementsMatch(t, tt.expected, names, "term %q", tt.term)
	}
}

func TestPing(t *testing.T) {
	repo := SetupTestDB(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
