package services

import (
	"errors"
	"os"
	"time"

	"github.com/brms-lite/brms-lite/dto"
	"github.com/brms-lite/brms-lite/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// IssueToken checks the configured operator credential and returns a signed
// actor token carrying the default scope. There is no user management
// surface; the admin console uses this single credential.
func IssueToken(req dto.TokenRequest, defaultActor models.ActorContext) (*dto.TokenResponse, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminEmail == "" || adminHash == "" {
		return nil, errors.New("token issuance is not configured")
	}

	if req.Email != adminEmail {
		return nil, errors.New("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(adminHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	token, expiresAt, err := GenerateToken(defaultActor)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// GenerateToken signs a JWT for the given actor scope.
func GenerateToken(actor models.ActorContext) (string, time.Time, error) {
	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		return "", time.Time{}, errors.New("JWT_SECRET not set in environment")
	}

	expiresAt := time.Now().Add(24 * time.Hour)

	claims := dto.TokenClaims{
		UserID:         actor.UserID,
		ProjectID:      actor.ProjectID,
		OrganisationID: actor.OrganisationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
