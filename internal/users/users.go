package users

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge/crypto"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// User is a dashboard account. Accounts are provisioned once through the
// ops CLI; the analytics flow itself never touches this table.
type User struct {
	ID                string    `gorm:"primaryKey;size:36"`
	Username          string    `gorm:"uniqueIndex;not null"`
	EncryptedPassword string    `gorm:"not null"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// ErrUserExists is returned when attempting to create a user that already exists.
var ErrUserExists = errors.New("user already exists")

// ErrUserNotFound is returned when a user lookup fails.
var ErrUserNotFound = gorm.ErrRecordNotFound

// generateID creates a URL-safe random token used as the primary key.
func generateID() string {
	bytes := make([]byte, 24)
	rand.Read(bytes)
	return base64.URLEncoding.EncodeToString(bytes)[:24]
}

// FindByUsername retrieves a user by username.
func FindByUsername(db *gorm.DB, username string) (*User, error) {
	var user User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID retrieves a user by ID.
func FindByID(db *gorm.DB, id string) (*User, error) {
	var user User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser provisions a new account with the supplied credentials.
// It returns ErrUserExists if the username is already taken.
func CreateUser(dbConn *gorm.DB, username, password string) error {
	if _, err := FindByUsername(dbConn, username); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if username == "" {
		return errors.New("username cannot be empty")
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	hashedPassword, err := crypto.GeneratePasswordHash(password)
	if err != nil {
		return err
	}

	newUser := User{
		ID:                generateID(),
		Username:          username,
		EncryptedPassword: string(hashedPassword),
	}

	logger := slog.Default()
	return sqlite.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Create(&newUser).Error
	})
}

// ChangePassword updates a user's password given their username.
func ChangePassword(dbConn *gorm.DB, username, password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}

	user, err := FindByUsername(dbConn, username)
	if err != nil {
		return err
	}

	hashedPassword, err := crypto.GeneratePasswordHash(password)
	if err != nil {
		return err
	}

	logger := slog.Default()
	return sqlite.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		return tx.Model(user).Update("encrypted_password", string(hashedPassword)).Error
	})
}

// VerifyCredentials checks a username/password pair against the stored hash.
func VerifyCredentials(dbConn *gorm.DB, username, password string) (*User, error) {
	user, err := FindByUsername(dbConn, username)
	if err != nil {
		return nil, err
	}
	if !crypto.VerifyPassword(user.EncryptedPassword, password) {
		return nil, errors.New("invalid credentials")
	}
	return user, nil
}
