package api

import (
	"net/http"

	reqdto "mentor-booking/internal/handler/dto/request"
	resdto "mentor-booking/internal/handler/dto/response"
	"mentor-booking/internal/handler/httperr"
	"mentor-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Check mentor availability
// @Description Advisory check; the reservation itself re-checks atomically
// @Tags mentors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mentor ID"
// @Param date query string true "YYYY-MM-DD"
// @Param startTime query string true "HH:MM"
// @Param endTime query string true "HH:MM"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Router /mentors/{id}/availability [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	mentorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	var query reqdto.AvailabilityQuery
	if bindErr := c.ShouldBindQuery(&query); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid query", nil)
		return
	}
	available, err := h.q.IsAvailable(c.Request.Context(), mentorID, query.Date, query.StartTime, query.EndTime)
	if err != nil {
		httperr.AbortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.AvailabilityResponse{Available: available})
}
