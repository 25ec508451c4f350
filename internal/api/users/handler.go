package users

import (
	"net/http"

	"tenanthub/internal/api/respond"
	"tenanthub/internal/app/http/middleware"
	"tenanthub/internal/auth"
	"tenanthub/internal/domain"
	"tenanthub/internal/domain/identity"
	"tenanthub/internal/domain/orgs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler serves the /users endpoints.
type Handler struct {
	DB  *gorm.DB
	Svc *auth.Service
	Log *zap.Logger
}

func NewHandler(db *gorm.DB, svc *auth.Service, log *zap.Logger) *Handler {
	return &Handler{DB: db, Svc: svc, Log: log}
}

// GET /users/:id
func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	store := identity.NewStore(h.DB)

	account, err := store.FindByID(id)
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	if account == nil {
		respond.Error(c, h.Log, &domain.ErrNotFound{Resource: "user account", ID: id})
		return
	}

	profile, err := store.ProfileFor(id)
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	userOrgs, err := orgs.NewStore(h.DB).ListForUser(id)
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}

	c.JSON(http.StatusOK, UserDetailResponse{
		ID:            account.ID,
		Username:      account.Username,
		Email:         account.Email,
		IsEnabled:     account.IsEnabled,
		CreatedAt:     account.CreatedAt,
		Profile:       buildProfileDTO(profile),
		Organizations: buildOrganizationDTOs(userOrgs),
	})
}

// PUT /users/:id/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	id := c.Param("id")
	if middleware.ActingUser(c) != id {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "can only update your own profile"})
		return
	}

	var input struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		AvatarURL *string `json:"avatarUrl"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := identity.NewStore(h.DB).UpdateProfile(id, identity.ProfileUpdate{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		AvatarURL: input.AvatarURL,
	})
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}

	c.JSON(http.StatusOK, ProfileDTO{
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		AvatarURL: profile.AvatarURL,
	})
}

// PUT /users/:id/password
func (h *Handler) ChangePassword(c *gin.Context) {
	id := c.Param("id")
	if middleware.ActingUser(c) != id {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "can only change your own password"})
		return
	}

	var input struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !passwordStrong(input.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 8 characters with letters and numbers"})
		return
	}

	if err := h.Svc.ChangePassword(id, input.OldPassword, input.NewPassword); err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// POST /users/:id/force-password-reset
func (h *Handler) ForcePasswordReset(c *gin.Context) {
	id := c.Param("id")

	if err := h.Svc.ForcePasswordReset(middleware.ActingUser(c), id); err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset initiated"})
}

// POST /users/find-by-email
func (h *Handler) FindByEmail(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := identity.NewStore(h.DB).FindByEmail(input.Email)
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	if account == nil {
		respond.Error(c, h.Log, &domain.ErrNotFound{Resource: "user account", ID: input.Email})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": account.ID, "email": account.Email})
}

func passwordStrong(password string) bool {
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
