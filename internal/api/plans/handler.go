package plans

import (
	"net/http"

	"tenanthub/internal/api/respond"
	"tenanthub/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler serves the plan catalog.
type Handler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{DB: db, Log: log}
}

// GET /plans
func (h *Handler) List(c *gin.Context) {
	plans, err := billing.NewStore(h.DB).ActivePlans()
	if err != nil {
		respond.Error(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}
