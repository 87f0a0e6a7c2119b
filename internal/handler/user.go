package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/hirewise/hirewise/internal/auth"
	"github.com/hirewise/hirewise/internal/repository"
	"github.com/hirewise/hirewise/pkg"
	"github.com/hirewise/hirewise/pkg/model"
	"github.com/hirewise/hirewise/pkg/response"
)

// SignUp registers a recruiter account and returns a token.
func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	pwHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		h.Logger.Sugar().Errorw("failed to hash password", "err", err)
		response.InternalError(c, "")
		return
	}

	rec, err := h.Repo.CreateRecruiter(ctx, req.Name, req.Email, pwHash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			response.Conflict(c, "email already registered")
			return
		}
		h.Logger.Sugar().Errorw("recruiter create failed", "email", req.Email, "err", err)
		response.InternalError(c, "")
		return
	}

	token, err := auth.GenerateToken(h.Cfg.JWT.Secret, rec.ID, rec.Email, h.Cfg.JWT.AccessTokenTTL)
	if err != nil {
		h.Logger.Sugar().Errorw("error creating token", "err", err)
		response.InternalError(c, "")
		return
	}

	response.Created(c, model.AuthRes{Token: token, Recruiter: *rec})
}

// Login verifies credentials and returns a JWT.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	rec, err := h.Repo.GetRecruiterByEmail(ctx, req.Email)
	if err != nil {
		response.Unauthorized(c, "invalid credentials")
		return
	}
	if err := pkg.ComparePassword(rec.PasswordHash, req.Password); err != nil {
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.Cfg.JWT.Secret, rec.ID, rec.Email, h.Cfg.JWT.AccessTokenTTL)
	if err != nil {
		h.Logger.Sugar().Errorw("error creating token", "err", err)
		response.InternalError(c, "")
		return
	}

	response.OK(c, model.AuthRes{Token: token, Recruiter: *rec})
}

// Me returns the authenticated recruiter's profile.
func (h *Handler) Me(c *gin.Context) {
	claims := h.ClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	rec, err := h.Repo.GetRecruiterByID(c.Request.Context(), claims.RecruiterID)
	if err != nil {
		response.Unauthorized(c, "")
		return
	}
	response.OK(c, rec)
}
