package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Authenticate checks a username and password pair. Unknown users and wrong
// passwords give the same error.
func Authenticate(ctx context.Context, db *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// EnsureAdmin creates the first admin account when the users table is empty.
// It reports whether a user was created.
func EnsureAdmin(ctx context.Context, db *gorm.DB, username, password string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if username == "" || password == "" {
		return false, fmt.Errorf("no users exist and no admin credentials are configured")
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := models.User{Username: username, Name: "Administrator", Password: hashed, Role: models.RoleAdmin}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, err
	}

	utils.InfoLogger.Infof("Seeded admin user %q", username)
	return true, nil
}
