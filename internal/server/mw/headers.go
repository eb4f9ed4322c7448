package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/config"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/i18n"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/resp"
)

const (
	HeaderDeviceType  = "X-Device-Type"
	HeaderLanguage    = "X-Language"
	HeaderClientToken = "X-Client-Token"
	HeaderUserToken   = "X-User-Token"
)

// RequireBaseHeaders validates the headers every app build must send
// and stores the request language for the resp layer.
func RequireBaseHeaders(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		device := strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderDeviceType)))
		lang := strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderLanguage)))
		clientToken := strings.TrimSpace(c.GetHeader(HeaderClientToken))

		if lang == i18n.LangEN || lang == i18n.LangHI {
			c.Set(resp.CtxLang, lang)
		}

		if device == "" || lang == "" || clientToken == "" {
			resp.ErrorKey(c, http.StatusBadRequest, "error.missing_headers")
			c.Abort()
			return
		}

		switch device {
		case "ios", "android", "web":
		default:
			resp.Error(c, http.StatusBadRequest, "invalid X-Device-Type (allowed: ios, android, web)")
			c.Abort()
			return
		}

		switch lang {
		case i18n.LangEN, i18n.LangHI:
		default:
			resp.Error(c, http.StatusBadRequest, "invalid X-Language (allowed: en, hi)")
			c.Abort()
			return
		}

		if cfg.ClientTokenExpected != "" && clientToken != cfg.ClientTokenExpected {
			resp.ErrorKey(c, http.StatusUnauthorized, "error.invalid_client_token")
			c.Abort()
			return
		}

		c.Next()
	}
}
