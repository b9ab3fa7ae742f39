package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"dinocars/internal/apierror"
	"dinocars/internal/dto"
	"dinocars/internal/infra"
	"dinocars/internal/middleware"
	"dinocars/internal/service"

	"github.com/gin-gonic/gin"
)

type RegistrosHandler struct{ svc service.RegistroService }

func NewRegistrosHandler(svc service.RegistroService) *RegistrosHandler {
	return &RegistrosHandler{svc: svc}
}

// CalcularVueltas godoc
// @Summary Calcular vueltas del dia
// @Description total_today = suma de los contadores; rides_today = total_today - total_accumulated_prev
// @Tags registros
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CalculoVueltasRequest true "Contadores"
// @Success 200 {object} dto.CalculoVueltasResponse
// @Router /calculate-vueltas [post]
func (h *RegistrosHandler) CalcularVueltas(c *gin.Context) {
	var req dto.CalculoVueltasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.svc.CalcularVueltas(req))
}

// CuadrarCaja godoc
// @Summary Previsualizar el cuadre de caja
// @Tags registros
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CuadreCajaRequest true "Conteo"
// @Success 200 {object} dto.CuadreCajaResponse
// @Router /cuadrar-caja [post]
func (h *RegistrosHandler) CuadrarCaja(c *gin.Context) {
	var req dto.CuadreCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CuadrarCaja(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ultimo godoc
// @Summary Ultimo registro cargado
// @Description Si no hay registros devuelve uno con id 0 y valores en cero.
// @Tags registros
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.RegistroResponse
// @Router /last-record [get]
func (h *RegistrosHandler) Ultimo(c *gin.Context) {
	resp, err := h.svc.UltimoRegistro(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Guardar registro diario
// @Tags registros
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistroRequest true "Registro"
// @Success 201 {object} dto.RegistroResponse
// @Router /records/ [post]
func (h *RegistrosHandler) Crear(c *gin.Context) {
	var req dto.RegistroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req, middleware.GetClaims(c).Username())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Listar registros diarios
// @Tags registros
// @Produce json
// @Security BearerAuth
// @Param date query string false "YYYY-MM-DD"
// @Param month query string false "YYYY-MM"
// @Param skip query int false "Desplazamiento"
// @Param limit query int false "Maximo (500)"
// @Success 200 {array} dto.RegistroResponse
// @Router /records/ [get]
func (h *RegistrosHandler) Listar(c *gin.Context) {
	var f dto.RegistroFiltro
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Reemplazar registro diario
// @Description Todos los campos se reemplazan por los del cuerpo.
// @Tags registros
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param body body dto.RegistroRequest true "Registro"
// @Success 200 {object} dto.RegistroResponse
// @Failure 404 {object} apierror.APIError
// @Router /records/{id} [put]
func (h *RegistrosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RegistroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Eliminar registro diario
// @Tags registros
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} dto.OKResponse
// @Failure 404 {object} apierror.APIError
// @Router /records/{id} [delete]
func (h *RegistrosHandler) Eliminar(c *gin.Context) {
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

// ReportePDF godoc
// @Summary Reporte mensual en PDF
// @Tags registros
// @Produce application/pdf
// @Security BearerAuth
// @Param month query string true "YYYY-MM"
// @Success 200 {file} binary
// @Failure 400 {object} apierror.APIError
// @Router /records/report.pdf [get]
func (h *RegistrosHandler) ReportePDF(c *gin.Context) {
	mes := c.Query("month")
	if mes == "" {
		c.JSON(http.StatusBadRequest, apierror.New("El parametro month es obligatorio (YYYY-MM)"))
		return
	}
	regs, err := h.svc.RegistrosDelMes(c.Request.Context(), mes)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := infra.WriteReporteMensual(&buf, mes, regs); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="dinocars-%s.pdf"`, mes))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
