package api

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/audexa/internal/auth"
	"github.com/satriahrh/audexa/usecase"
)

type multipartFile = multipart.File

// optionalSession attaches session claims when a valid bearer token is sent.
// Requests without a token stay anonymous; a bad token is rejected.
func (h *handler) optionalSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c.Request())
		if token == "" || h.tokens == nil {
			return next(c)
		}

		claims, err := h.tokens.ValidateToken(token)
		if err != nil {
			h.logger.Warn("Rejected invalid session token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_token",
				Message: "Invalid or expired JWT token",
			})
		}
		c.Set(claimsKey, claims)
		return next(c)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func sessionRef(c echo.Context, lang string) (usecase.SessionRef, bool) {
	claims, ok := c.Get(claimsKey).(*auth.JWTClaims)
	if !ok {
		return usecase.SessionRef{}, false
	}
	return refFromClaims(claims, lang), true
}

func refFromClaims(claims *auth.JWTClaims, lang string) usecase.SessionRef {
	channel := claims.Channel
	if channel == "" {
		channel = webChannel
	}
	return usecase.SessionRef{
		SessionID: claims.SessionID,
		UserID:    claims.UserID,
		Channel:   channel,
		Language:  lang,
	}
}
