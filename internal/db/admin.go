package db

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Admin is a back-office account allowed to manage gallery and site content.
type Admin struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string
	Role         string `gorm:"default:admin"` // admin, super_admin
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Admin) BeforeCreate(*gorm.DB) error {
	if strings.TrimSpace(a.ID) == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// EnsureAdmin creates a bootstrap admin account when email and password are
// both provided and no account with that email exists yet.
func EnsureAdmin(email, password, name string) error {
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing Admin
	err := DB.Where("email = ?", trimmedEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return DB.Create(&Admin{
		Email:        trimmedEmail,
		PasswordHash: string(hashed),
		Name:         strings.TrimSpace(name),
		Role:         "super_admin",
		IsActive:     true,
	}).Error
}
