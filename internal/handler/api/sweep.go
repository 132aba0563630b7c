package api

import (
	"net/http"

	"mentor-booking/internal/handler/httperr"
	"mentor-booking/internal/pkg/metrics"
	"mentor-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type SweepHandler struct {
	cmds    commands.SweepCommands
	metrics *metrics.Metrics
}

func NewSweepHandler(cmds commands.SweepCommands, m *metrics.Metrics) *SweepHandler {
	return &SweepHandler{cmds: cmds, metrics: m}
}

// @Summary Sweep lapsed reservations
// @Description Deletes every reserved hold whose expiry has passed. Authenticated with the cron secret.
// @Tags cron
// @Produce json
// @Security CronSecret
// @Success 200 {object} shared.SweepResult
// @Failure 401 {object} httperr.Response
// @Router /cron/sweep-reservations [post]
func (h *SweepHandler) Sweep(c *gin.Context) {
	result, err := h.cmds.Sweep(c.Request.Context())
	h.metrics.SweepCompleted("trigger", result.DeletedCount, err)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Sweep failed", nil)
		return
	}
	c.JSON(http.StatusOK, result)
}
