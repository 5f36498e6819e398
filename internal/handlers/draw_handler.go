package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/amigo-secreto-api/internal/logger"
	"github.com/gravadigital/amigo-secreto-api/internal/report"
	"github.com/gravadigital/amigo-secreto-api/internal/response"
	"github.com/gravadigital/amigo-secreto-api/internal/services"
)

type DrawHandler struct {
	service *services.GroupService
	log     *log.Logger
}

func NewDrawHandler(service *services.GroupService) *DrawHandler {
	return &DrawHandler{
		service: service,
		log:     logger.Handler("draw"),
	}
}

// Validate handles GET /api/groups/:group_id/validation
func (h *DrawHandler) Validate(c *gin.Context) {
	v, err := h.service.ValidateGroup(c.Param("group_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.OK(c, "", v)
}

// Draw handles POST /api/groups/:group_id/draw. The body is optional.
func (h *DrawHandler) Draw(c *gin.Context) {
	var req services.DrawRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	res, err := h.service.Draw(c.Param("group_id"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.OK(c, "Draw completed", res)
}

// Cycles handles GET /api/groups/:group_id/cycles
func (h *DrawHandler) Cycles(c *gin.Context) {
	view, err := h.service.Cycles(c.Param("group_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.OK(c, "", view)
}

// Links handles GET /api/groups/:group_id/links
func (h *DrawHandler) Links(c *gin.Context) {
	links, err := h.service.Links(c.Param("group_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.OK(c, "", links)
}

// Report handles GET /api/groups/:group_id/report
func (h *DrawHandler) Report(c *gin.Context) {
	r, err := h.service.Report(c.Param("group_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", "attachment;filename="+r.Filename)
	c.Data(http.StatusOK, report.ContentType+"; charset=utf-8", r.Content)
}

// ExportReport handles POST /api/groups/:group_id/report/export
func (h *DrawHandler) ExportReport(c *gin.Context) {
	export, err := h.service.ExportReport(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.OK(c, "Report exported", export)
}

// Reveal handles GET /api/reveal?u=...&f=...
func (h *DrawHandler) Reveal(c *gin.Context) {
	res, err := h.service.Reveal(c.Query("u"), c.Query("f"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.OK(c, "", res)
}
