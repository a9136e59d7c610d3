package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avern/runyard/internal/auth"
)

// Register creates a new account.
func (h *Handler) Register(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	u, err := h.auth.Register(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User registered",
		"user_id": u.ID,
	})
}

// Login exchanges form credentials for a bearer token. The form field is
// named username but carries the account email.
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me returns the authenticated account and its saved files.
func (h *Handler) Me(c *gin.Context) {
	u := auth.FromContext(c)

	files, err := h.vault.Hydrate(c.Request.Context(), u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  u,
		"files": files,
	})
}
