package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/joshua-takyi/eventx/internal/services"
)

func BookEvent(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		eventID, ok := paramID(c, "id")
		if !ok {
			return
		}

		if _, err := bs.BookEvent(c.Request.Context(), identity, eventID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse("Ticket booked successfully"))
	}
}

func IssueTicket(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.IssueTicketInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("User and event are required"))
			return
		}

		ticket, err := bs.IssueTicket(c.Request.Context(), &in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(ticket, "Ticket created successfully"))
	}
}

func MyTickets(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		tickets, err := bs.MyTickets(c.Request.Context(), identity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tickets)
	}
}

func AllTickets(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tickets, err := bs.AllTickets(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tickets)
	}
}

func GetTicket(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		ticket, err := bs.GetTicket(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ticket)
	}
}

func EventBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		bookings, err := bs.EventBookings(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, bookings)
	}
}

func UserBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		bookings, err := bs.UserBookings(c.Request.Context(), identity, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, bookings)
	}
}

func UpdateTicketStatus(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req struct {
			Status models.TicketStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Status is required"))
			return
		}

		ticket, err := bs.SetTicketStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ticket)
	}
}
