package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cointrail/tracker-api/internal/core/ports"
)

// TokenVerifier checks a bearer token and yields its subject.
type TokenVerifier interface {
	Verify(token string) (bool, string, error)
}

// Auth validates the request's bearer token and injects the subject's
// user id and username into the echo context.
//
// The frontend contract transports the token as an opaque string in
// the JSON body or the "token" query parameter, not in a header. When
// the token rides in the body, the body is buffered and restored so
// the handler can still bind it.
func Auth(verifier TokenVerifier, identity ports.IdentityService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
			}
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}

			ok, subject, _ := verifier.Verify(token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			username, err := identity.UsernameForID(c.Request().Context(), subject)
			if err != nil {
				// Token is well-signed but its subject no longer exists
				// (e.g. after a wipe).
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown token subject")
			}

			c.Set("user_id", subject)
			c.Set("username", username)

			return next(c)
		}
	}
}

// extractToken looks for the token in the query string first, then in
// the JSON body. The body is always restored for downstream binding.
func extractToken(c echo.Context) (string, error) {
	if token := c.QueryParam("token"); token != "" {
		return token, nil
	}

	req := c.Request()
	if req.Body == nil {
		return "", nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return "", err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		// Not JSON: let the handler's own binding report it.
		return "", nil
	}
	return payload.Token, nil
}
