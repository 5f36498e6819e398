// Package organizer protege las rutas de un grupo con su token de organizador
package organizer

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/amigo-secreto-api/internal/auth"
	"github.com/gravadigital/amigo-secreto-api/internal/logger"
	"github.com/gravadigital/amigo-secreto-api/internal/response"
)

const ClaimsKey = "organizer_claims"

// Verifier checks an organizer token against a group id
type Verifier interface {
	Verify(token, groupID string) (*auth.Claims, error)
}

// Require rejects requests whose bearer token does not manage :group_id
func Require(v Verifier) gin.HandlerFunc {
	log := logger.HTTP()

	return func(c *gin.Context) {
		groupID := c.Param("group_id")
		token := auth.BearerToken(c.GetHeader("Authorization"))

		claims, err := v.Verify(token, groupID)
		if err != nil {
			log.Warn("Organizer token rejected", "group_id", groupID, "error", err)
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				response.UnauthorizedError(c, "Organizer token is required")
			case errors.Is(err, auth.ErrWrongGroup):
				response.UnauthorizedError(c, "Organizer token does not belong to this group")
			default:
				response.UnauthorizedError(c, "Organizer token is invalid or expired")
			}
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
