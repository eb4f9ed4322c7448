package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/domain"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/payload"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/resp"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/users"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/util"
)

type RegistrationHandler struct {
	logger *zap.Logger
	users  *users.Repo
}

func NewRegistrationHandler(logger *zap.Logger, usersRepo *users.Repo) *RegistrationHandler {
	return &RegistrationHandler{logger: logger, users: usersRepo}
}

// Register creates the account and sends the client back to the
// credentials step of the login wizard. No tokens here: the first
// login walks through the OTP step like any other.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req payload.Register
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		resp.Error(c, http.StatusBadRequest, "name is too short")
		return
	}
	if err := util.ValidatePassword(req.Password); err != nil {
		resp.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, "password hash failed")
		return
	}

	id, err := h.users.Create(c.Request.Context(), users.CreateParams{
		Name:         name,
		Phone:        req.Phone,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, users.ErrPhoneAlreadyRegistered) {
			resp.Error(c, http.StatusConflict, "phone already registered")
			return
		}
		h.logger.Error("create user failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	resp.Success(c, http.StatusCreated, "ok", gin.H{
		"event":     domain.EventRegistered,
		"user_id":   id.String(),
		"next_step": domain.StepCredentials,
	})
}
