package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/domain"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/mw"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/payload"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/resp"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/sms"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/store"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/users"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/util"
)

type ProfileHandler struct {
	logger *zap.Logger

	users        *users.Repo
	phoneActions *store.OTPActionStore
	limiter      *store.SendLimiter
	sms          *sms.GatewayClient

	otpTTL time.Duration
	otpLen int
}

func NewProfileHandler(
	logger *zap.Logger,
	usersRepo *users.Repo,
	phoneActions *store.OTPActionStore,
	limiter *store.SendLimiter,
	smsClient *sms.GatewayClient,
	otpTTL time.Duration,
	otpLen int,
) *ProfileHandler {
	return &ProfileHandler{
		logger:       logger,
		users:        usersRepo,
		phoneActions: phoneActions,
		limiter:      limiter,
		sms:          smsClient,
		otpTTL:       otpTTL,
		otpLen:       otpLen,
	}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID := c.MustGet(mw.CtxUserID).(uuid.UUID)

	u, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		resp.Error(c, http.StatusUnauthorized, "user not found")
		return
	}
	resp.OK(c, gin.H{"user": u})
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID := c.MustGet(mw.CtxUserID).(uuid.UUID)

	var req payload.PasswordChange
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := util.ValidatePassword(req.NewPassword); err != nil {
		resp.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		resp.Error(c, http.StatusUnauthorized, "user not found")
		return
	}
	if !util.ComparePassword(u.PasswordHash, req.CurrentPassword) {
		resp.Error(c, http.StatusUnauthorized, "current password is wrong")
		return
	}

	hash, err := util.HashPassword(req.NewPassword)
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, "password hash failed")
		return
	}
	if err := h.users.UpdatePasswordHash(c.Request.Context(), userID, hash); err != nil {
		h.logger.Error("password update failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp.OK(c, gin.H{"event": "password_changed"})
}

// PhoneChangeRequest sends an OTP to the NEW number; ownership of the
// new SIM is what the code proves.
func (h *ProfileHandler) PhoneChangeRequest(c *gin.Context) {
	userID := c.MustGet(mw.CtxUserID).(uuid.UUID)

	var req payload.PhoneChange
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	u, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		resp.Error(c, http.StatusUnauthorized, "user not found")
		return
	}
	if u.Phone == req.NewPhone {
		resp.Error(c, http.StatusBadRequest, "new phone matches the current one")
		return
	}
	if _, err := h.users.FindByPhone(c.Request.Context(), req.NewPhone); err == nil {
		resp.Error(c, http.StatusConflict, "phone already registered")
		return
	} else if !errors.Is(err, users.ErrNotFound) {
		h.logger.Error("find user by phone failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	ip := strings.TrimSpace(c.ClientIP())
	if err := h.limiter.Reserve(ctx, req.NewPhone, ip); err != nil {
		switch {
		case errors.Is(err, store.ErrSendCooldown), errors.Is(err, store.ErrSendRateLimited):
			resp.Error(c, http.StatusTooManyRequests, "otp rate limited")
		default:
			h.logger.Error("otp send reserve failed", zap.Error(err))
			resp.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	code, err := util.GenerateNumericOTP(h.otpLen)
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, "otp generation failed")
		return
	}
	if _, err := h.sms.SendOTP(ctx, req.NewPhone, code, int(h.otpTTL.Seconds())); err != nil {
		h.logger.Warn("sms gateway send failed", zap.Error(err))
		resp.Error(c, http.StatusBadGateway, "otp send failed")
		return
	}

	actionID, err := h.phoneActions.Create(ctx, userID, u.Phone, req.NewPhone, code)
	if err != nil {
		h.logger.Error("phone change action create failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	resp.OK(c, gin.H{
		"event":       domain.EventOTPRequired,
		"flow_id":     actionID,
		"ttl_seconds": int(h.otpTTL.Seconds()),
	})
}

func (h *ProfileHandler) PhoneChangeVerify(c *gin.Context) {
	userID := c.MustGet(mw.CtxUserID).(uuid.UUID)

	var req payload.PhoneChangeVerify
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	action, err := h.phoneActions.Verify(c.Request.Context(), strings.TrimSpace(req.FlowID), strings.TrimSpace(req.OTP))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrActionExpired):
			resp.Error(c, http.StatusUnauthorized, "flow_id expired or invalid")
		case errors.Is(err, store.ErrActionInvalidOTP):
			resp.Error(c, http.StatusUnauthorized, "otp invalid")
		case errors.Is(err, store.ErrActionMaxAttempts):
			resp.Error(c, http.StatusTooManyRequests, "otp max attempts exceeded")
		default:
			h.logger.Error("phone change verify failed", zap.Error(err))
			resp.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	if action.UserID != userID {
		resp.Error(c, http.StatusForbidden, "flow belongs to another user")
		return
	}

	if err := h.users.UpdatePhone(c.Request.Context(), userID, action.NewPhone); err != nil {
		if errors.Is(err, users.ErrPhoneAlreadyRegistered) {
			resp.Error(c, http.StatusConflict, "phone already registered")
			return
		}
		h.logger.Error("phone update failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	u, _ := h.users.FindByID(c.Request.Context(), userID)
	resp.OK(c, gin.H{"event": "phone_changed", "user": u})
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	userID := c.MustGet(mw.CtxUserID).(uuid.UUID)

	if err := h.users.DeleteAndArchive(c.Request.Context(), userID); err != nil {
		if errors.Is(err, users.ErrDeleteNotFound) {
			resp.Error(c, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("delete user failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp.OK(c, gin.H{"event": "deleted"})
}
