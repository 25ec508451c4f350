package orgs

import (
	"net/http"

	"tenanthub/internal/api/respond"
	"tenanthub/internal/app/http/middleware"
	"tenanthub/internal/domain"
	"tenanthub/internal/domain/access"
	"tenanthub/internal/domain/orgs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler serves the /organizations endpoints. Every mutating
// operation checks the acting principal against the membership policy
// before touching the store.
type Handler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{DB: db, Log: log}
}

// requireRole aborts with 401 unless the acting user holds one of the
// roles in the organization. Returns the acting user id on success.
func (h *Handler) requireRole(c *gin.Context, orgID string, roles ...string) (string, bool) {
	acting := middleware.ActingUser(c)
	ok, err := access.IsAuthorized(h.DB, acting, orgID, roles...)
	if err != nil {
		respond.Error(c, h.Log, err)
		return "", false
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "insufficient role for this organization"})
		return "", false
	}
	return acting, true
}

// POST /organizations
func (h *Handler) Create(c *gin.Context) {
	var input struct {
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
		WebsiteURL  *string `json:"websiteUrl"`
		Address     *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acting := middleware.ActingUser(c)
	var org orgs.Organization
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		store := orgs.NewStore(tx)
		org = orgs.Organization{
			Name:        input.Name,
			Description: input.Description,
			WebsiteURL:  input.WebsiteURL,
			Address:     input.Address,
		}
		if err := store.Create(&org); err != nil {
			return err
		}
		// the creator administers the new organization
		_, err := store.AddUser(acting, org.ID, access.RoleAdmin)
		return err
	})
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}

	c.JSON(http.StatusCreated, org)
}

// GET /organizations/:id
func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	org, err := orgs.NewStore(h.DB).FindByID(id)
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	if org == nil {
		respond.Error(c, h.Log, &domain.ErrNotFound{Resource: "organization", ID: id})
		return
	}
	c.JSON(http.StatusOK, org)
}

// GET /organizations
func (h *Handler) List(c *gin.Context) {
	list, err := orgs.NewStore(h.DB).FindAll()
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// PUT /organizations/:id
func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.requireRole(c, id, access.EditRoles...); !ok {
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		WebsiteURL  *string `json:"websiteUrl"`
		Address     *string `json:"address"`
		IsEnabled   *bool   `json:"isEnabled"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org, err := orgs.NewStore(h.DB).Update(id, orgs.Update{
		Name:        input.Name,
		Description: input.Description,
		WebsiteURL:  input.WebsiteURL,
		Address:     input.Address,
		IsEnabled:   input.IsEnabled,
	})
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

// DELETE /organizations/:id
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.requireRole(c, id, access.RoleAdmin); !ok {
		return
	}

	if err := orgs.NewStore(h.DB).Delete(id); err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /organizations/:id/users
func (h *Handler) AddUser(c *gin.Context) {
	orgID := c.Param("id")
	if _, ok := h.requireRole(c, orgID, access.RoleAdmin); !ok {
		return
	}

	var input struct {
		UserID string `json:"userId" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !access.ValidRole(input.Role) {
		respond.Error(c, h.Log, &domain.ErrValidation{Field: "role", Message: "unknown role"})
		return
	}

	m, err := orgs.NewStore(h.DB).AddUser(input.UserID, orgID, input.Role)
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// DELETE /organizations/:id/users/:userId
func (h *Handler) RemoveUser(c *gin.Context) {
	orgID := c.Param("id")
	userID := c.Param("userId")
	if _, ok := h.requireRole(c, orgID, access.RoleAdmin); !ok {
		return
	}

	if err := orgs.NewStore(h.DB).RemoveUser(userID, orgID); err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /organizations/:id/users/:userId/role
func (h *Handler) UpdateUserRole(c *gin.Context) {
	orgID := c.Param("id")
	userID := c.Param("userId")
	if _, ok := h.requireRole(c, orgID, access.RoleAdmin); !ok {
		return
	}

	var input struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !access.ValidRole(input.Role) {
		respond.Error(c, h.Log, &domain.ErrValidation{Field: "role", Message: "unknown role"})
		return
	}

	m, err := orgs.NewStore(h.DB).UpdateMemberRole(orgID, userID, input.Role)
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// GET /organizations/:id/users
func (h *Handler) ListUsers(c *gin.Context) {
	members, err := orgs.NewStore(h.DB).ListUsers(c.Param("id"))
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// GET /organizations/user/:userId
func (h *Handler) ListForUser(c *gin.Context) {
	list, err := orgs.NewStore(h.DB).ListForUser(c.Param("userId"))
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
