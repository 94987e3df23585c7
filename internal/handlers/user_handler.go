package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/joshua-takyi/eventx/internal/services"
)

func ListUsers(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := ps.UserSummaries(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func ListAdmins(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		admins, err := ps.AdminSummaries(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, admins)
	}
}

func GetUser(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		user, err := ps.GetUser(c.Request.Context(), identity, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func UpdateUser(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var in services.ProfileUpdate
		if !bindBody(c, &in) {
			return
		}
		if in.Interests != nil {
			in.Interests = splitInterests(in.Interests)
		}
		image, closeImage, ok := requestImage(c)
		if !ok {
			return
		}
		defer closeImage()

		user, err := ps.UpdateUser(c.Request.Context(), identity, id, &in, image)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func DeleteUser(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := ps.DeleteUser(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse("User deleted"))
	}
}

func GetAdmin(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		admin, err := ps.GetAdmin(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, admin)
	}
}

func UpdateAdmin(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var in services.ProfileUpdate
		if !bindBody(c, &in) {
			return
		}
		image, closeImage, ok := requestImage(c)
		if !ok {
			return
		}
		defer closeImage()

		admin, err := ps.UpdateAdmin(c.Request.Context(), id, &in, image)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, admin)
	}
}

func DeleteAdmin(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := ps.DeleteAdmin(c.Request.Context(), identity, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse("Admin deleted"))
	}
}

// requestImage returns the optional upload as a reader plus its closer.
// The reader is a nil interface when no image was sent.
func requestImage(c *gin.Context) (io.Reader, func(), bool) {
	file, err := formImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid image upload"))
		return nil, func() {}, false
	}
	if file == nil {
		return nil, func() {}, true
	}
	return file, func() { file.Close() }, true
}
