package handlers

import (
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/amigo-secreto-api/internal/logger"
	"github.com/gravadigital/amigo-secreto-api/internal/response"
	"github.com/gravadigital/amigo-secreto-api/internal/services"
)

type GroupHandler struct {
	service *services.GroupService
	log     *log.Logger
}

func NewGroupHandler(service *services.GroupService) *GroupHandler {
	return &GroupHandler{
		service: service,
		log:     logger.Handler("group"),
	}
}

// CreateGroup handles POST /api/groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req services.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	created, err := h.service.CreateGroup(req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Created(c, "Group created", created)
}

// GetGroup handles GET /api/groups/:group_id
func (h *GroupHandler) GetGroup(c *gin.Context) {
	g, err := h.service.GetGroup(c.Param("group_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.OK(c, "", g)
}

// DeleteGroup handles DELETE /api/groups/:group_id
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	if err := h.service.DeleteGroup(c.Param("group_id")); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.OK(c, "Group deleted", nil)
}

// AddParticipant handles POST /api/groups/:group_id/participants
func (h *GroupHandler) AddParticipant(c *gin.Context) {
	var req services.ParticipantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.service.AddParticipant(c.Param("group_id"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Created(c, "Participant added", p)
}

// RemoveParticipant handles DELETE /api/groups/:group_id/participants/:participant_id
func (h *GroupHandler) RemoveParticipant(c *gin.Context) {
	if err := h.service.RemoveParticipant(c.Param("group_id"), c.Param("participant_id")); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.OK(c, "Participant removed", nil)
}

type UpdateBlacklistRequest struct {
	Blacklist []string `json:"blacklist"`
}

// UpdateBlacklist handles PUT /api/groups/:group_id/participants/:participant_id/blacklist
func (h *GroupHandler) UpdateBlacklist(c *gin.Context) {
	var req UpdateBlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.service.UpdateBlacklist(c.Param("group_id"), c.Param("participant_id"), req.Blacklist)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.OK(c, "Blacklist updated", p)
}
