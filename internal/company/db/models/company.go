// Package models contains the persistence model for the company table,
// configured for GORM. Unique indexes on name and email make the store the
// final arbiter of uniqueness regardless of pre-checks.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Company represents a company row in the database. The location list is
// kept as a JSON array column so the record round-trips as one document.
type Company struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"size:100;uniqueIndex"`
	Description  string    `gorm:"size:1000"`
	Industry     string    `gorm:"size:64;index"`
	FoundedYear  int
	Locations    datatypes.JSONSlice[string]
	Website      string
	Email        string `gorm:"size:254;uniqueIndex"`
	Phone        string `gorm:"size:32"`
	Employees    int
	IsActive     bool `gorm:"default:true"`
	Logo         string
	Headquarters string `gorm:"size:200"`
	Revenue      float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
