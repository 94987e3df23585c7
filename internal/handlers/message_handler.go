package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/joshua-takyi/eventx/internal/services"
)

type sendMessageRequest struct {
	To  string `json:"to" binding:"required"`
	Msg string `json:"msg" binding:"required"`
}

func Contacts(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		contacts, err := ps.Contacts(c.Request.Context(), identity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, contacts)
	}
}

func SendMessage(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Recipient and message are required"))
			return
		}
		to, err := models.ParseID(req.To)
		if err != nil {
			respondError(c, err)
			return
		}

		msg, err := ms.Send(c.Request.Context(), identity, to, req.Msg)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}

func Thread(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		other, ok := paramID(c, "userId")
		if !ok {
			return
		}
		msgs, err := ms.Thread(c.Request.Context(), identity, other)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, msgs)
	}
}

// Inbox lists received messages; ?limit=n caps the result.
func Inbox(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid limit"))
				return
			}
			limit = n
		}

		items, err := ms.Inbox(c.Request.Context(), identity, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}
