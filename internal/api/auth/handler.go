package auth

import (
	"net/http"
	"regexp"

	"tenanthub/internal/api/respond"
	"tenanthub/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the /auth endpoints.
type Handler struct {
	Svc *auth.Service
	Log *zap.Logger
}

func NewHandler(svc *auth.Service, log *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: log}
}

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isEmailValid(email string) bool {
	return emailPattern.MatchString(email)
}

// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !isEmailValid(input.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}
	if input.Password != "" && !isPasswordStrong(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long and contain both letters and numbers"})
		return
	}

	user, _, err := h.Svc.Register(input.Email, input.Password)
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Svc.ValidateCredentials(input.Username, input.Password)
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}

	token, err := h.Svc.Tokens().Issue(user)
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"user":         user,
		"access_token": token,
		"userId":       user.ID,
	})
}

// POST /auth/sso-callback
//
// Receives the identity asserted by the frontend's SSO exchange.
// Verifying the provider token is the boundary's concern; the Google
// flow in google.go is the verified path.
func (h *Handler) SSOCallback(c *gin.Context) {
	var input struct {
		Provider string `json:"provider" binding:"required"`
		ID       string `json:"id" binding:"required"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Svc.SSOLogin(input.Provider, input.ID)
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "SSO login successful",
		"user":    user,
	})
}
