package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusRented    PropertyStatus = "rented"
)

// Property is a rental listing. Conversations and bookings anchor to it.
type Property struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID     string         `gorm:"index;type:text;not null" json:"ownerId"`
	Title       string         `gorm:"type:text;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Location    string         `gorm:"type:text" json:"location"`
	City        string         `gorm:"index;type:text" json:"city"`
	Price       int64          `json:"price"` // monthly rent, minor currency unit
	Bedrooms    int            `json:"bedrooms"`
	Bathrooms   int            `json:"bathrooms"`
	ImageURL    string         `json:"imageUrl"`
	Status      PropertyStatus `gorm:"type:text;default:'available'" json:"status"`

	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
