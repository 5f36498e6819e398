package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/amigo-secreto-api/internal/domain/draw"
	"github.com/gravadigital/amigo-secreto-api/internal/domain/group"
	"github.com/gravadigital/amigo-secreto-api/internal/domain/participant"
	"github.com/gravadigital/amigo-secreto-api/internal/report"
	"github.com/gravadigital/amigo-secreto-api/internal/response"
	"github.com/gravadigital/amigo-secreto-api/internal/services"
)

// respondError maps service errors to HTTP statuses
func respondError(c *gin.Context, log *log.Logger, err error) {
	var infeasible *draw.InfeasibleError

	switch {
	case errors.As(err, &infeasible):
		response.UnprocessableError(c, err.Error(), infeasible.Validation)
	case errors.Is(err, draw.ErrSearchExhausted):
		response.ServiceUnavailableError(c, err.Error())
	case errors.Is(err, group.ErrGroupNotFound):
		response.NotFoundError(c, "Group not found")
	case errors.Is(err, group.ErrParticipantNotFound):
		response.NotFoundError(c, "Participant not found")
	case errors.Is(err, group.ErrDuplicateName):
		response.ConflictError(c, "A participant with this name already exists")
	case errors.Is(err, group.ErrNoDraw):
		response.ConflictError(c, "The group has not been drawn yet")
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, group.ErrSelfExclusion),
		errors.Is(err, participant.ErrNameRequired):
		response.BadRequestError(c, err.Error())
	case errors.Is(err, report.ErrExportDisabled):
		response.ErrorResponseWithMessage(c, http.StatusNotImplemented, "Report export is not configured")
	default:
		log.Error("Unexpected error", "path", c.FullPath(), "error", err)
		response.InternalServerError(c, "Internal server error")
	}
}

func bindError(c *gin.Context, err error) {
	response.BadRequestError(c, "Invalid request payload: "+err.Error())
}
