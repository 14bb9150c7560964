package delivery

import (
	"errors"
	"net/http"

	"fulfillmentpro-push/internal/push/usecase"

	"github.com/gin-gonic/gin"
)

// PushHandler handles push registration and delivery requests
type PushHandler struct {
	pushUsecase usecase.PushUsecase
}

func NewPushHandler(pushUsecase usecase.PushUsecase) *PushHandler {
	return &PushHandler{pushUsecase: pushUsecase}
}

// SubscribeRequest is posted by the foreground client
type SubscribeRequest struct {
	Token       string `json:"token"`
	DeviceLabel string `json:"device_label"`
}

// Subscribe registers a delivery token
// POST /api/push/subscribe
func (h *PushHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.pushUsecase.Subscribe(req.Token, req.DeviceLabel); err != nil {
		if errors.Is(err, usecase.ErrTokenRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Token required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "subscribed"})
}

// Unsubscribe removes a delivery token
// DELETE /api/push/subscribe/:token
func (h *PushHandler) Unsubscribe(c *gin.Context) {
	if err := h.pushUsecase.Unsubscribe(c.Param("token")); err != nil {
		if errors.Is(err, usecase.ErrTokenRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Token required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unsubscribed"})
}

// Send broadcasts a notice to every registered device
// POST /api/push/send
func (h *PushHandler) Send(c *gin.Context) {
	var notice usecase.Notice
	if err := c.ShouldBindJSON(&notice); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.pushUsecase.Broadcast(c.Request.Context(), notice)
	if err != nil {
		if errors.Is(err, usecase.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
