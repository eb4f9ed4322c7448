package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/security"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/resp"
)

const CtxUserID = "user_id"

func RequireUser(jwtm *security.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderUserToken))
		if raw == "" {
			resp.ErrorKey(c, http.StatusUnauthorized, "error.invalid_user_token")
			c.Abort()
			return
		}
		id, err := jwtm.ParseAccess(raw)
		if err != nil || id == uuid.Nil {
			resp.ErrorKey(c, http.StatusUnauthorized, "error.invalid_user_token")
			c.Abort()
			return
		}
		c.Set(CtxUserID, id)
		c.Next()
	}
}
