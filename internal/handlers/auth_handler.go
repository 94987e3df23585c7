package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventx/internal/helpers"
	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/joshua-takyi/eventx/internal/services"
)

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	Secure bool
}

func (cc CookieConfig) set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(helpers.CookieName, token, int(helpers.TokenTTL.Seconds()), "/", "", cc.Secure, true)
}

func (cc CookieConfig) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(helpers.CookieName, "", -1, "/", "", cc.Secure, true)
}

type sessionBody struct {
	*models.Identity
	Token string `json:"token"`
}

type loginRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role"`
}

func RegisterUser(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.RegisterUserInput
		if !bindBody(c, &in) {
			return
		}
		in.Interests = splitInterests(in.Interests)

		image, closeImage, ok := requestImage(c)
		if !ok {
			return
		}
		defer closeImage()

		session, err := as.RegisterUser(c.Request.Context(), &in, image)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, sessionBody{Identity: session.Identity, Token: session.Token})
	}
}

func RegisterAdmin(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.RegisterAdminInput
		if !bindBody(c, &in) {
			return
		}

		image, closeImage, ok := requestImage(c)
		if !ok {
			return
		}
		defer closeImage()

		session, err := as.RegisterAdmin(c.Request.Context(), &in, image)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, sessionBody{Identity: session.Identity, Token: session.Token})
	}
}

// Login authenticates against the store for role. An empty role lets the
// request body choose, defaulting to the user store.
func Login(as *services.AuthService, cookies CookieConfig, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request payload"))
			return
		}
		store := role
		if store == "" {
			store = req.Role
		}

		session, err := as.Login(c.Request.Context(), req.Email, req.Password, store)
		if err != nil {
			respondError(c, err)
			return
		}
		cookies.set(c, session.Token)
		c.JSON(http.StatusOK, sessionBody{Identity: session.Identity, Token: session.Token})
	}
}

func Logout(cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookies.clear(c)
		c.JSON(http.StatusOK, models.MessageResponse("Logged out successfully"))
	}
}

// Me returns the caller as resolved by the auth middleware.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := mustIdentity(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, identity)
	}
}
