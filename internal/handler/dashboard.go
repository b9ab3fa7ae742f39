package handler

import (
	"net/http"

	"dinocars/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Estadisticas godoc
// @Summary Estadisticas del panel de administracion
// @Description Ante cualquier error devuelve estadisticas vacias con 200.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardStats
// @Router /admin/dashboard-stats [get]
func (h *DashboardHandler) Estadisticas(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Estadisticas(c.Request.Context()))
}
