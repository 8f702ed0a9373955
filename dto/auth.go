package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenRequest is the body for issuing an actor token
type TokenRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued bearer token
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenClaims are the JWT claims carried by an actor token
type TokenClaims struct {
	UserID         string `json:"userId"`
	ProjectID      string `json:"projectId"`
	OrganisationID string `json:"organisationId"`
	jwt.RegisteredClaims
}
