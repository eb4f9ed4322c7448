package mw

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/phone"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/resp"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json field names instead of Go struct fields
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("in_mobile", func(fl validator.FieldLevel) bool {
		return phone.Validate(fl.Field().String()).Valid
	})
	return v
}

// Body keys holding phone numbers. phoneE164 is what older app builds
// still send; it is normalized in place and mirrored into "phone".
var phoneKeys = []string{"phone", "new_phone", "phoneE164"}

var passwordKeys = []string{"password", "new_password", "current_password"}

// ValidatePayload normalizes the phone/password fields of a JSON body,
// validates it against the route's schema and rejects the request with
// 400 before the handler runs. On success the mutated body replaces
// the original, so handlers bind already-normalized values.
func ValidatePayload(schema func() any) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
		if err != nil {
			resp.Error(c, http.StatusBadRequest, "invalid payload")
			c.Abort()
			return
		}
		_ = c.Request.Body.Close()

		body := map[string]any{}
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				resp.Error(c, http.StatusBadRequest, "invalid payload")
				c.Abort()
				return
			}
		}

		for _, k := range phoneKeys {
			if v, ok := body[k].(string); ok {
				body[k] = phone.Normalize(v)
			}
		}
		if legacy, ok := body["phoneE164"].(string); ok {
			if _, exists := body["phone"]; !exists {
				body["phone"] = legacy
			}
		}
		for _, k := range passwordKeys {
			if v, ok := body[k].(string); ok {
				body[k] = strings.TrimSpace(v)
			}
		}

		mutated, err := json.Marshal(body)
		if err != nil {
			resp.Error(c, http.StatusBadRequest, "invalid payload")
			c.Abort()
			return
		}

		p := schema()
		if err := json.Unmarshal(mutated, p); err != nil {
			resp.Error(c, http.StatusBadRequest, "invalid payload")
			c.Abort()
			return
		}
		if err := validate.Struct(p); err != nil {
			resp.Error(c, http.StatusBadRequest, firstErrorMessage(err))
			c.Abort()
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(mutated))
		c.Request.ContentLength = int64(len(mutated))
		c.Next()
	}
}

// firstErrorMessage maps the first failing field/rule to a message a
// human can act on. Phone failures re-run the phone validator to name
// the exact rule (digit count vs leading digit).
func firstErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid payload"
	}
	fe := verrs[0]
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "in_mobile":
		if s, ok := fe.Value().(string); ok {
			if r := phone.Validate(s); r.Err != nil {
				return field + ": " + r.Err.Error()
			}
		}
		return field + " is not a valid mobile number"
	case "min":
		return field + " is too short"
	case "max":
		return field + " is too long"
	case "numeric":
		return field + " must be numeric"
	case "uuid4":
		return field + " must be a UUID"
	default:
		return field + " is invalid"
	}
}
