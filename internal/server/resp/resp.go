package resp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/i18n"
)

// CtxLang is the gin context key middleware stores the request language under.
const CtxLang = "lang"

// Envelope is the unified response structure for ALL API endpoints.
type Envelope struct {
	Status      string `json:"status"`      // success | error
	Code        int    `json:"code"`        // usually HTTP status code
	Description string `json:"description"` // human readable
	Data        any    `json:"data"`        // object | array | null
}

func Success(c *gin.Context, httpCode int, description string, data any) {
	c.JSON(httpCode, Envelope{
		Status:      "success",
		Code:        httpCode,
		Description: description,
		Data:        data,
	})
}

func OK(c *gin.Context, data any) {
	Success(c, http.StatusOK, "ok", data)
}

func Error(c *gin.Context, httpCode int, description string) {
	c.JSON(httpCode, Envelope{
		Status:      "error",
		Code:        httpCode,
		Description: description,
		Data:        nil,
	})
}

// ErrorKey renders an error with the message translated for the
// request language (set by the base-headers middleware).
func ErrorKey(c *gin.Context, httpCode int, key string) {
	lang := c.GetString(CtxLang)
	if lang == "" {
		lang = i18n.LangEN
	}
	Error(c, httpCode, i18n.T(lang, key))
}
