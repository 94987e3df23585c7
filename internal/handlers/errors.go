package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventx/internal/middleware"
	"github.com/joshua-takyi/eventx/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondError maps service errors onto status codes. Anything unknown is
// handed to the ErrorHandler middleware, which logs it and answers 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrAlreadyExists),
		errors.Is(err, models.ErrAlreadyBooked),
		errors.Is(err, models.ErrNoSeats):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		return
	}
	c.JSON(status, models.ErrorResponse(message(err)))
}

// message capitalizes the first letter so "user not found" reads "User not found".
func message(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func paramID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := models.ParseID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid id"))
		return primitive.NilObjectID, false
	}
	return id, true
}

func mustIdentity(c *gin.Context) (*models.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("Not authorized"))
		return nil, false
	}
	return identity, true
}

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEMultipartPOSTForm
}

// bindBody binds JSON bodies and multipart forms alike.
func bindBody(c *gin.Context, dst interface{}) bool {
	var err error
	if isMultipart(c) {
		err = c.ShouldBind(dst)
	} else {
		err = c.ShouldBindJSON(dst)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request payload"))
		return false
	}
	return true
}

// formImage opens the optional "image" upload. A request without one
// yields a nil file.
func formImage(c *gin.Context) (multipart.File, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return fh.Open()
}

// splitInterests accepts both repeated form fields and one comma list.
func splitInterests(in []string) []string {
	if len(in) != 1 || !strings.Contains(in[0], ",") {
		return in
	}
	return strings.Split(in[0], ",")
}
