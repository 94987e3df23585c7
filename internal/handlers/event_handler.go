package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/joshua-takyi/eventx/internal/services"
)

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		var in models.EventInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request payload"))
			return
		}

		event, err := es.CreateEvent(c.Request.Context(), identity, &in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, event)
	}
}

func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := es.ListEvents(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		event, err := es.GetEvent(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, event)
	}
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var in models.EventInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request payload"))
			return
		}

		event, err := es.UpdateEvent(c.Request.Context(), id, &in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, event)
	}
}

func DeleteEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := es.DeleteEvent(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse("Event deleted"))
	}
}
