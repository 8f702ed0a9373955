package middleware

import (
	"errors"
	"os"
	"strings"

	"github.com/brms-lite/brms-lite/dto"
	"github.com/brms-lite/brms-lite/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorContextKey = "actor"

// ActorMiddleware injects a verified ActorContext into every request. A
// valid bearer token supplies the identity; without one the configured
// default actor applies. Services never read identity from anywhere but
// this context.
func ActorMiddleware(defaultActor models.ActorContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := defaultActor
		if claims, err := parseBearer(c); err == nil {
			actor = models.ActorContext{
				UserID:         claims.UserID,
				ProjectID:      claims.ProjectID,
				OrganisationID: claims.OrganisationID,
			}
			if actor.ProjectID == "" {
				actor.ProjectID = defaultActor.ProjectID
			}
			if actor.OrganisationID == "" {
				actor.OrganisationID = defaultActor.OrganisationID
			}
		}
		actor.Origin = c.ClientIP()
		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// GetActor retrieves the ActorContext injected by ActorMiddleware.
func GetActor(c *gin.Context) models.ActorContext {
	if value, exists := c.Get(actorContextKey); exists {
		if actor, ok := value.(models.ActorContext); ok {
			return actor
		}
	}
	return models.ActorContext{Origin: c.ClientIP()}
}

func parseBearer(c *gin.Context) (*dto.TokenClaims, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errors.New("no bearer token")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}

	claims := &dto.TokenClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
