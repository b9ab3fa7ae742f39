package handler

import (
	"net/http"

	"dinocars/internal/dto"
	"dinocars/internal/service"

	"github.com/gin-gonic/gin"
)

type TurnosHandler struct{ svc service.TurnoService }

func NewTurnosHandler(svc service.TurnoService) *TurnosHandler {
	return &TurnosHandler{svc: svc}
}

// Crear godoc
// @Summary Asignar un turno a un usuario
// @Tags turnos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de usuario"
// @Param body body dto.CrearTurnoRequest true "Turno"
// @Success 201 {object} dto.TurnoResponse
// @Failure 404 {object} apierror.APIError
// @Router /users/{id}/schedules/ [post]
func (h *TurnosHandler) Crear(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CrearTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CrearMasivo godoc
// @Summary Carga masiva de turnos por dias de semana
// @Description Crea un turno por cada fecha del rango cuyo dia (lunes=0 … domingo=6) este en weekdays, salvo que ya exista.
// @Tags turnos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.TurnosMasivoRequest true "Rango y dias"
// @Success 200 {object} dto.TurnosMasivoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /schedules/bulk [post]
func (h *TurnosHandler) CrearMasivo(c *gin.Context) {
	var req dto.TurnosMasivoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearMasivo(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Listar turnos
// @Tags turnos
// @Produce json
// @Security BearerAuth
// @Param month query string false "YYYY-MM"
// @Param user_id query int false "Usuario"
// @Success 200 {array} dto.TurnoResponse
// @Router /schedules/ [get]
func (h *TurnosHandler) Listar(c *gin.Context) {
	var f dto.TurnoFiltro
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), f.Mes, f.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Eliminar turno
// @Tags turnos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} dto.OKResponse
// @Failure 404 {object} apierror.APIError
// @Router /schedules/{id} [delete]
func (h *TurnosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}
