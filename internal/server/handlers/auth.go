package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/domain"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/security"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/payload"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/resp"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/sms"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/store"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/users"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/util"
)

type AuthHandler struct {
	logger *zap.Logger

	users   *users.Repo
	flows   *store.LoginFlowStore
	resets  *store.OTPActionStore
	limiter *store.SendLimiter
	refresh *store.RefreshStore
	jwtm    *security.JWTManager
	sms     *sms.GatewayClient

	otpTTL time.Duration
	otpLen int
}

func NewAuthHandler(
	logger *zap.Logger,
	usersRepo *users.Repo,
	flows *store.LoginFlowStore,
	resets *store.OTPActionStore,
	limiter *store.SendLimiter,
	refresh *store.RefreshStore,
	jwtm *security.JWTManager,
	smsClient *sms.GatewayClient,
	otpTTL time.Duration,
	otpLen int,
) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		users:   usersRepo,
		flows:   flows,
		resets:  resets,
		limiter: limiter,
		refresh: refresh,
		jwtm:    jwtm,
		sms:     smsClient,
		otpTTL:  otpTTL,
		otpLen:  otpLen,
	}
}

// Login is step one of the wizard: phone + password. On success an OTP
// goes out and the client moves to the otp step with a flow_id.
func (h *AuthHandler) Login(c *gin.Context) {
	var req payload.Login
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	u, err := h.users.FindByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			h.logger.Error("find user by phone failed", zap.Error(err))
			resp.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		resp.Error(c, http.StatusUnauthorized, "invalid phone or password")
		return
	}
	if !util.ComparePassword(u.PasswordHash, req.Password) {
		resp.Error(c, http.StatusUnauthorized, "invalid phone or password")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	ip := strings.TrimSpace(c.ClientIP())
	if err := h.limiter.Reserve(ctx, req.Phone, ip); err != nil {
		h.sendLimitError(c, err)
		return
	}

	code, err := util.GenerateNumericOTP(h.otpLen)
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, "otp generation failed")
		return
	}
	if _, err := h.sms.SendOTP(ctx, req.Phone, code, int(h.otpTTL.Seconds())); err != nil {
		h.logger.Warn("sms gateway send failed", zap.Error(err))
		resp.Error(c, http.StatusBadGateway, "otp send failed")
		return
	}

	userID, err := parseUserID(u.ID)
	if err != nil {
		h.logger.Error("stored user id is not a uuid", zap.String("id", u.ID))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	flowID, err := h.flows.Create(ctx, userID, req.Phone, code)
	if err != nil {
		h.logger.Error("login flow create failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	resp.OK(c, gin.H{
		"event":       domain.EventOTPRequired,
		"flow_id":     flowID,
		"ttl_seconds": int(h.otpTTL.Seconds()),
	})
}

// VerifyOTP is step two: flow_id + otp. A correct code consumes the
// flow and issues the token pair.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req payload.LoginVerify
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	flow, err := h.flows.Verify(c.Request.Context(), req.FlowID, strings.TrimSpace(req.OTP))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrFlowExpired):
			resp.Error(c, http.StatusUnauthorized, "flow_id expired or invalid")
		case errors.Is(err, store.ErrFlowInvalidOTP):
			resp.Error(c, http.StatusUnauthorized, "otp invalid")
		case errors.Is(err, store.ErrFlowMaxAttempts):
			resp.Error(c, http.StatusTooManyRequests, "otp max attempts exceeded")
		case errors.Is(err, store.ErrFlowWrongStep), errors.Is(err, store.ErrFlowNotFound):
			resp.Error(c, http.StatusConflict, "flow is not awaiting an otp")
		default:
			h.logger.Error("otp verify error", zap.Error(err))
			resp.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	u, err := h.users.FindByID(c.Request.Context(), flow.UserID)
	if err != nil {
		resp.Error(c, http.StatusUnauthorized, "user not found")
		return
	}

	tokens, refreshClaims, err := h.jwtm.Issue(flow.UserID)
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, "token issue failed")
		return
	}
	// a refresh token whose JTI was never whitelisted can never rotate
	if err := h.refresh.Put(c.Request.Context(), refreshClaims.UserID, refreshClaims.JTI); err != nil {
		h.logger.Error("refresh whitelist write failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	resp.OK(c, gin.H{
		"event":  domain.EventLogin,
		"tokens": tokens,
		"user":   u,
	})
}

// ResendOTP re-sends the code for a live flow; the resend cooldown and
// hourly caps still apply.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req payload.LoginResend
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	flow, err := h.flows.Get(ctx, req.FlowID)
	if err != nil {
		if errors.Is(err, store.ErrFlowExpired) || errors.Is(err, store.ErrFlowNotFound) {
			resp.Error(c, http.StatusUnauthorized, "flow_id expired or invalid")
			return
		}
		h.logger.Error("login flow get failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	ip := strings.TrimSpace(c.ClientIP())
	if err := h.limiter.Reserve(ctx, flow.Phone, ip); err != nil {
		h.sendLimitError(c, err)
		return
	}

	code, err := util.GenerateNumericOTP(h.otpLen)
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, "otp generation failed")
		return
	}
	// store the new hash before the SMS leaves, so a delivered code always verifies
	if _, err := h.flows.Reissue(ctx, req.FlowID, code); err != nil {
		switch {
		case errors.Is(err, store.ErrFlowExpired), errors.Is(err, store.ErrFlowNotFound):
			resp.Error(c, http.StatusUnauthorized, "flow_id expired or invalid")
		case errors.Is(err, store.ErrFlowWrongStep):
			resp.Error(c, http.StatusConflict, "flow is not awaiting an otp")
		default:
			h.logger.Error("login flow reissue failed", zap.Error(err))
			resp.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	if _, err := h.sms.SendOTP(ctx, flow.Phone, code, int(h.otpTTL.Seconds())); err != nil {
		h.logger.Warn("sms gateway send failed", zap.Error(err))
		resp.Error(c, http.StatusBadGateway, "otp send failed")
		return
	}

	resp.OK(c, gin.H{
		"event":       domain.EventOTPRequired,
		"flow_id":     req.FlowID,
		"ttl_seconds": int(h.otpTTL.Seconds()),
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req payload.Refresh
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}
	claims, err := h.jwtm.ParseRefresh(strings.TrimSpace(req.RefreshToken))
	if err != nil {
		resp.Error(c, http.StatusUnauthorized, "invalid refresh_token")
		return
	}
	// rotate: old jti must exist
	if err := h.refresh.Consume(c.Request.Context(), claims.UserID, claims.JTI); err != nil {
		resp.Error(c, http.StatusUnauthorized, "invalid refresh_token")
		return
	}

	userID, err := parseUserID(claims.UserID)
	if err != nil {
		resp.Error(c, http.StatusUnauthorized, "invalid refresh_token")
		return
	}
	tokens, newClaims, err := h.jwtm.Issue(userID)
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, "token issue failed")
		return
	}
	if err := h.refresh.Put(c.Request.Context(), newClaims.UserID, newClaims.JTI); err != nil {
		h.logger.Error("refresh whitelist write failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	resp.OK(c, gin.H{"tokens": tokens})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req payload.Refresh
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}
	claims, err := h.jwtm.ParseRefresh(strings.TrimSpace(req.RefreshToken))
	if err != nil {
		resp.OK(c, gin.H{"event": domain.EventLogout})
		return
	}
	_ = h.refresh.Consume(c.Request.Context(), claims.UserID, claims.JTI)
	resp.OK(c, gin.H{"event": domain.EventLogout})
}

// ResetPasswordRequest sends an OTP to the account's phone and opens a
// reset action.
func (h *AuthHandler) ResetPasswordRequest(c *gin.Context) {
	var req payload.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	u, err := h.users.FindByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		resp.Error(c, http.StatusNotFound, "user not found")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	ip := strings.TrimSpace(c.ClientIP())
	if err := h.limiter.Reserve(ctx, req.Phone, ip); err != nil {
		h.sendLimitError(c, err)
		return
	}

	code, err := util.GenerateNumericOTP(h.otpLen)
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, "otp generation failed")
		return
	}
	if _, err := h.sms.SendOTP(ctx, req.Phone, code, int(h.otpTTL.Seconds())); err != nil {
		h.logger.Warn("sms gateway send failed", zap.Error(err))
		resp.Error(c, http.StatusBadGateway, "otp send failed")
		return
	}

	userID, err := parseUserID(u.ID)
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	actionID, err := h.resets.Create(ctx, userID, req.Phone, "", code)
	if err != nil {
		h.logger.Error("reset action create failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	resp.OK(c, gin.H{
		"event":       domain.EventOTPRequired,
		"flow_id":     actionID,
		"ttl_seconds": int(h.otpTTL.Seconds()),
	})
}

func (h *AuthHandler) ResetPasswordConfirm(c *gin.Context) {
	var req payload.ResetConfirm
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := util.ValidatePassword(req.NewPassword); err != nil {
		resp.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	action, err := h.resets.Verify(c.Request.Context(), strings.TrimSpace(req.FlowID), strings.TrimSpace(req.OTP))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrActionExpired):
			resp.Error(c, http.StatusUnauthorized, "flow_id expired or invalid")
		case errors.Is(err, store.ErrActionInvalidOTP):
			resp.Error(c, http.StatusUnauthorized, "otp invalid")
		case errors.Is(err, store.ErrActionMaxAttempts):
			resp.Error(c, http.StatusTooManyRequests, "otp max attempts exceeded")
		default:
			h.logger.Error("reset verify failed", zap.Error(err))
			resp.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	hash, err := util.HashPassword(req.NewPassword)
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, "password hash failed")
		return
	}
	if err := h.users.UpdatePasswordHash(c.Request.Context(), action.UserID, hash); err != nil {
		h.logger.Error("password update failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp.OK(c, gin.H{"event": "password_reset"})
}

func (h *AuthHandler) sendLimitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrSendCooldown):
		resp.Error(c, http.StatusTooManyRequests, "otp cooldown")
	case errors.Is(err, store.ErrSendRateLimited):
		resp.Error(c, http.StatusTooManyRequests, "otp rate limited")
	default:
		h.logger.Error("otp send reserve failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
	}
}
