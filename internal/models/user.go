package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account row. Password holds the bcrypt hash for credential
// logins and stays empty when the account was created through a federated
// provider (Google).
type User struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name  string `json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Image string `json:"image"`

	Password string `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
