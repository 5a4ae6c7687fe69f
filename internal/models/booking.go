package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Booking records a renter's payment intent for a property. The gateway
// (Paystack) owns the transaction; we only track the verified outcome.
type Booking struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PropertyID string `gorm:"index;type:text;not null" json:"propertyId"`
	UserID     string `gorm:"index;type:text;not null" json:"userId"`
	Amount     int64  `json:"amount"`

	PaymentStatus    PaymentStatus `gorm:"type:text;default:'pending'" json:"paymentStatus"`
	PaymentReference string        `gorm:"index;type:text" json:"paymentReference"`

	Property Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	User     User     `gorm:"foreignKey:UserID" json:"-"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}
