package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrovia/agrovia/internal/auth"
	"github.com/agrovia/agrovia/internal/config"
	"github.com/agrovia/agrovia/internal/user"
)

// registerRequest payload for POST /api/auth/register.
// swagger:model RegisterRequest
type registerRequest struct {
	Name             string        `json:"name" binding:"required,min=3"`
	OrganizationName string        `json:"organization_name" binding:"required,min=3"`
	Email            string        `json:"email" binding:"required,email"`
	Phone            string        `json:"phone" binding:"required,min=10"`
	Password         string        `json:"password" binding:"required,min=6"`
	Role             user.Role     `json:"role"`
	Address          *user.Address `json:"address"`
}

// loginRequest payload for POST /api/auth/login.
// swagger:model LoginRequest
type loginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	RememberMe bool   `json:"remember_me"`
}

// registerHandler creates the account, establishes a session and returns the
// public profile. Role defaults to buyer and is immutable afterwards.
func registerHandler(users user.Repository, tokens *auth.Tokens, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// The address is optional, but a supplied one must name its province.
		var addr user.Address
		if req.Address != nil {
			if req.Address.Province == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "province is required"})
				return
			}
			addr = *req.Address
		}
		if req.Role == "" {
			req.Role = user.RoleBuyer
		}
		if !user.ValidRole(req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}

		hash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
			return
		}
		u := &user.User{
			ID:               uuid.NewString(),
			Name:             req.Name,
			OrganizationName: req.OrganizationName,
			Email:            req.Email,
			Phone:            req.Phone,
			PasswordHash:     hash,
			Role:             req.Role,
			Address:          addr,
		}
		if err := users.Create(c.Request.Context(), u); err != nil {
			if err == user.ErrAlreadyExist {
				c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
			return
		}

		if !startSession(c, tokens, cfg, u.ID, false) {
			return
		}
		c.JSON(http.StatusCreated, u.Profile())
	}
}

func loginHandler(users user.Repository, tokens *auth.Tokens, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		u, err := users.GetByEmail(c.Request.Context(), req.Email)
		if err != nil || !user.CheckPassword(u.PasswordHash, req.Password) {
			// Same message for unknown email and wrong password.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		if !startSession(c, tokens, cfg, u.ID, req.RememberMe) {
			return
		}
		c.JSON(http.StatusOK, u.Profile())
	}
}

// logoutHandler clears the session cookie; calling it without a session is a
// success too.
func logoutHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.ClearSession(c, cfg.IsProduction())
		c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
	}
}

func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, auth.CurrentUser(c).Profile())
	}
}

func startSession(c *gin.Context, tokens *auth.Tokens, cfg config.Config, userID string, rememberMe bool) bool {
	signed, ttl, err := tokens.Issue(userID, rememberMe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not establish session"})
		return false
	}
	auth.SetSession(c, signed, int(ttl.Seconds()), cfg.IsProduction())
	return true
}
