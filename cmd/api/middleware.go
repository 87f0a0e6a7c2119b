package main

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hirewise/hirewise/internal/auth"
	"github.com/hirewise/hirewise/internal/cache"
	"github.com/hirewise/hirewise/internal/handler"
	"github.com/hirewise/hirewise/pkg/response"
)

func (app *application) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := app.verifyClaimsFromAuthHeader(c)
		if err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		// The account may have been removed since the token was issued.
		if _, err := app.Repo.GetRecruiterByID(c.Request.Context(), claims.RecruiterID); err != nil {
			response.Unauthorized(c, "")
			c.Abort()
			return
		}

		handler.SetClaims(c, claims)
		c.Next()
	}
}

func (app *application) verifyClaimsFromAuthHeader(c *gin.Context) (*auth.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header is missing")
	}

	fields := strings.Fields(authHeader)
	if len(fields) != 2 || fields[0] != "Bearer" {
		return nil, fmt.Errorf("invalid authorization header")
	}

	claims, err := auth.ParseToken(app.Config.JWT.Secret, fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// RateLimitMiddleware caps requests per client IP on the public endpoints.
// Backed by a redis fixed window; fails open if redis is down.
func (app *application) RateLimitMiddleware() gin.HandlerFunc {
	cfg := app.Config.Limiter
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		allowed, err := cache.Allow(c.Request.Context(), app.Redis, c.ClientIP(), cfg.Requests, cfg.Window)
		if err != nil {
			app.Logger.Sugar().Warnw("rate limiter unavailable", "err", err)
		}
		if !allowed {
			response.TooManyRequests(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORSMiddleware allows the configured frontend origins.
func (app *application) CORSMiddleware() gin.HandlerFunc {
	trusted := map[string]bool{}
	for _, o := range app.Config.GetCORSOrigins() {
		trusted[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if trusted[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
