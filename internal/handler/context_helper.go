package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cert-registry-api/internal/middleware"
	"github.com/noah-isme/cert-registry-api/internal/models"
)

func actorFromContext(c *gin.Context) *models.ActorClaims {
	value, exists := c.Get(middleware.ContextActorKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.ActorClaims)
	if !ok {
		return nil
	}
	return claims
}
