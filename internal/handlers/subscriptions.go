package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/response"
)

type subscriptionResponse struct {
	Subscribed bool `json:"subscribed"`
}

func (h HandlerSet) ToggleSubscription(c *gin.Context) error {
	subscribed, err := h.channels.ToggleSubscription(c.Request.Context(), currentUserID(c), c.Param("channelId"))
	if err != nil {
		return err
	}

	message := "Unsubscribed successfully"
	if subscribed {
		message = "Subscribed successfully"
	}
	return response.OK(c, http.StatusOK, subscriptionResponse{Subscribed: subscribed}, message)
}
