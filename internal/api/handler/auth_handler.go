package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cointrail/tracker-api/internal/core/ports"
)

type AuthHandler struct {
	identity ports.IdentityService
}

func NewAuthHandler(identity ports.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type registerResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type loginRequest struct {
	// The frontend sends the username under "email".
	Email    string `query:"email" json:"email"`
	Password string `query:"password" json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Register handles POST /register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.identity.Register(c.Request().Context(), req.Username, req.Password, req.Password2)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, registerResponse{ID: result.UserID, Message: result.Message})
}

// Login handles GET /login. Credentials arrive as query parameters.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.identity.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: result.Token, Username: result.Username})
}
