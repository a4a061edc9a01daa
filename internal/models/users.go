package models

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SigUserCreate is emitted through util.Sig() after a successful signup.
const SigUserCreate = "user:create"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:256;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	ResetToken       string     `gorm:"size:100;index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	Transcriptions []Transcription `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// GenerateResetToken creates a URL-safe one-time token valid for 24 hours.
func (u *User) GenerateResetToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	u.ResetToken = base64.RawURLEncoding.EncodeToString(raw)
	expiry := time.Now().Add(24 * time.Hour)
	u.ResetTokenExpiry = &expiry
	return u.ResetToken, nil
}

func (u *User) VerifyResetToken(token string) bool {
	if u.ResetToken == "" || u.ResetToken != token {
		return false
	}
	if u.ResetTokenExpiry == nil || time.Now().After(*u.ResetTokenExpiry) {
		return false
	}
	return true
}

func (u *User) ClearResetToken() {
	u.ResetToken = ""
	u.ResetTokenExpiry = nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Transcription{})
}
