package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeRenter   UserType = "renter"
	UserTypeLandlord UserType = "landlord"
)

type User struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string   `json:"name"`
	Email     string   `gorm:"uniqueIndex" json:"email"`
	Phone     string   `json:"phone"`
	AvatarURL string   `json:"avatarUrl"`
	UserType  UserType `gorm:"type:text;default:'renter'" json:"userType"`

	Password string `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// IsValidUserType reports whether t is one of the two account types.
func IsValidUserType(t string) bool {
	return UserType(t) == UserTypeRenter || UserType(t) == UserTypeLandlord
}
