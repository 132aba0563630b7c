package api

import (
	"net/http"

	reqdto "mentor-booking/internal/handler/dto/request"
	"mentor-booking/internal/handler/httperr"
	"mentor-booking/internal/handler/middleware"
	"mentor-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	cmds commands.SubscriptionCommands
}

func NewSubscriptionHandler(cmds commands.SubscriptionCommands) *SubscriptionHandler {
	return &SubscriptionHandler{cmds: cmds}
}

// @Summary Register a push subscription
// @Tags notifications
// @Accept json
// @Security BearerAuth
// @Param request body reqdto.PushSubscriptionRequest true "Browser push subscription"
// @Success 201 "Created"
// @Failure 400 {object} httperr.Response
// @Router /notifications/subscriptions [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, middleware.ErrMissingToken, "Unauthorized", nil)
		return
	}
	var req reqdto.PushSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	if err := h.cmds.Subscribe(c.Request.Context(), userID, req.ToParams()); err != nil {
		httperr.AbortWithUseCaseError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// @Summary Remove a push subscription
// @Tags notifications
// @Accept json
// @Security BearerAuth
// @Param request body reqdto.UnsubscribeRequest true "Endpoint to remove"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Router /notifications/subscriptions [delete]
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, middleware.ErrMissingToken, "Unauthorized", nil)
		return
	}
	var req reqdto.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	if err := h.cmds.Unsubscribe(c.Request.Context(), userID, req.Endpoint); err != nil {
		httperr.AbortWithUseCaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
