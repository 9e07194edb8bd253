package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/heyireeh/storefront-api/internal/auth"
	"github.com/heyireeh/storefront-api/internal/config"
	"github.com/heyireeh/storefront-api/internal/user"
)

type registerRequest struct {
	Name     string `json:"name"     example:"Jane Doe"`
	Email    string `json:"email"    example:"jane@example.com"`
	Password string `json:"password" example:"hunter22"`
}

type loginRequest struct {
	Email    string `json:"email"    example:"jane@example.com"`
	Password string `json:"password" example:"hunter22"`
}

// registerHandler creates a user with the default role.
//
//	@Summary  Register a new user
//	@Tags     auth
//	@Accept   json
//	@Produce  json
//	@Param    body body registerRequest true "registration payload"
//	@Success  201 {object} user.Profile
//	@Failure  400 {object} product.HTTPError
//	@Failure  409 {object} product.HTTPError
//	@Router   /auth/register [post]
func registerHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Name == "" || req.Email == "" || req.Password == "" {
			fail(c, http.StatusBadRequest, "name, email and password are required")
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not hash password")
			return
		}
		u := &user.User{
			ID:           uuid.NewString(),
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         auth.RoleUser,
		}
		if err := users.Create(c.Request.Context(), u); err != nil {
			if err == user.ErrAlreadyExist {
				fail(c, http.StatusConflict, "user already exists")
				return
			}
			fail(c, http.StatusInternalServerError, "could not create user")
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "user registered successfully",
			"user":    gin.H{"id": u.ID, "name": u.Name, "email": u.Email},
		})
	}
}

// loginHandler verifies credentials and issues the session token. A missing
// account and a wrong password produce the same response on purpose.
//
//	@Summary  Log in
//	@Tags     auth
//	@Accept   json
//	@Produce  json
//	@Param    body body loginRequest true "credentials"
//	@Success  200 {object} map[string]interface{}
//	@Failure  401 {object} product.HTTPError
//	@Router   /auth/login [post]
func loginHandler(users user.Repository, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))

		u, err := users.GetByEmail(c.Request.Context(), req.Email)
		if err != nil && err != user.ErrNotFound {
			fail(c, http.StatusInternalServerError, "could not log in")
			return
		}
		if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
			fail(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		token, err := auth.IssueToken(cfg.JWTSecret, u.ID, u.Role, time.Now())
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not issue token")
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": u.Profile()})
	}
}

// seedAdminHandler bootstraps the master admin from config. Refuses once any
// admin exists.
//
//	@Summary  Seed the initial admin account
//	@Tags     auth
//	@Produce  json
//	@Success  201 {object} map[string]interface{}
//	@Failure  409 {object} product.HTTPError
//	@Router   /auth/seed [post]
func seedAdminHandler(users user.Repository, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		exists, err := users.HasAdmin(c.Request.Context())
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not check admins")
			return
		}
		if exists {
			fail(c, http.StatusConflict, "admin already exists")
			return
		}
		if cfg.AdminPassword == "" {
			fail(c, http.StatusBadRequest, "ADMIN_PASSWORD is not configured")
			return
		}
		hash, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not hash password")
			return
		}
		u := &user.User{
			ID:           uuid.NewString(),
			Name:         "Master Admin",
			Email:        cfg.AdminEmail,
			PasswordHash: hash,
			Role:         auth.RoleAdmin,
		}
		if err := users.Create(c.Request.Context(), u); err != nil {
			fail(c, http.StatusInternalServerError, "could not create admin")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "admin seeded successfully", "email": u.Email})
	}
}
