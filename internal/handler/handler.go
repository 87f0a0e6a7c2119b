package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hirewise/hirewise/internal/ai"
	"github.com/hirewise/hirewise/internal/auth"
	"github.com/hirewise/hirewise/internal/cloudinary"
	"github.com/hirewise/hirewise/internal/config"
	"github.com/hirewise/hirewise/internal/email"
	"github.com/hirewise/hirewise/internal/interview"
	"github.com/hirewise/hirewise/internal/matching"
	"github.com/hirewise/hirewise/internal/repository"
	"github.com/hirewise/hirewise/internal/sourcing"
	"github.com/hirewise/hirewise/internal/worker"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	Logger     *zap.Logger
	Repo       *repository.Repository
	Redis      *redis.Client
	Provider   ai.Provider
	Storage    *cloudinary.Client
	Email      *email.Sender
	Interviews *interview.Service
	Matching   *matching.Service
	Sourcing   *sourcing.Service
	Pool       *worker.Pool
	Cfg        *config.Config
}

const claimsKey = "claims"

// ClaimsFromContext returns the authenticated recruiter claims set by the
// auth middleware, or nil on unauthenticated routes.
func (h *Handler) ClaimsFromContext(c *gin.Context) *auth.Claims {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// SetClaims stores the recruiter claims on the request context.
func SetClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(claimsKey, claims)
}
