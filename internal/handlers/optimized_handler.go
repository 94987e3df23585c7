package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventx/internal/services"
)

// The /optimized routes return the bundles the dashboard pages render in
// a single round trip. They are compositions of the regular services.

func AdminDashboardData(as *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		data, err := as.AdminDashboardData(c.Request.Context(), identity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
	}
}

func PeopleList(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		users, err := ps.UserSummaries(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		admins, err := ps.AdminSummaries(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"users":       users,
			"admins":      admins,
			"currentUser": identity,
		})
	}
}

func TicketsManagement(bs *services.BookingService, es *services.EventService, ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		tickets, err := bs.AllTickets(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		events, err := es.ListEvents(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		users, err := ps.UserSummaries(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"tickets":      tickets,
			"events":       events,
			"users":        users,
			"currentAdmin": identity,
		})
	}
}

func AnalyticsRawData(as *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := as.RawData(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
	}
}

func EventRawData(as *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		data, err := as.EventRawData(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
	}
}
