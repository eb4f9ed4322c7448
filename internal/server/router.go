package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/config"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/infra"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/security"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/handlers"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/mw"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/payload"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/sms"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/store"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/users"
)

// New builds the gin engine with every route wired. The validation
// middleware runs per route so each endpoint validates exactly its own
// schema.
func New(cfg config.Config, logger *zap.Logger, inf *infra.Infra) *gin.Engine {
	if cfg.AppEnv != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			mw.HeaderDeviceType, mw.HeaderLanguage,
			mw.HeaderClientToken, mw.HeaderUserToken,
		},
		MaxAge: 12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	usersRepo := users.NewRepo(inf.PG)
	jwtm := security.NewJWTManager(cfg.JWTSigningKey, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	smsClient := sms.NewGatewayClient(cfg.SMSGatewayBaseURL, cfg.SMSGatewayToken, cfg.SMSGatewaySenderID)

	flows := store.NewLoginFlowStore(inf.Redis, cfg.JWTSigningKey, cfg.OTPTTL, cfg.OTPMaxAttempts)
	resets := store.NewOTPActionStore(inf.Redis, cfg.JWTSigningKey, "reset", cfg.OTPTTL, cfg.OTPMaxAttempts)
	phoneActions := store.NewOTPActionStore(inf.Redis, cfg.JWTSigningKey, "phonechange", cfg.OTPTTL, cfg.OTPMaxAttempts)
	limiter := store.NewSendLimiter(inf.Redis, cfg.OTPResendCooldown, cfg.OTPSendPerPhone, cfg.OTPSendPerIP)
	refresh := store.NewRefreshStore(inf.Redis, cfg.JWTRefreshTTL)

	authH := handlers.NewAuthHandler(logger, usersRepo, flows, resets, limiter, refresh, jwtm, smsClient, cfg.OTPTTL, cfg.OTPLength)
	regH := handlers.NewRegistrationHandler(logger, usersRepo)
	profH := handlers.NewProfileHandler(logger, usersRepo, phoneActions, limiter, smsClient, cfg.OTPTTL, cfg.OTPLength)

	v1 := r.Group("/v1")
	v1.Use(mw.RequireBaseHeaders(cfg))
	v1.Use(mw.RateLimit(inf.Redis, cfg.RateLimitRPS))

	auth := v1.Group("/auth")
	{
		auth.POST("/register",
			mw.ValidatePayload(func() any { return &payload.Register{} }), regH.Register)
		auth.POST("/login",
			mw.ValidatePayload(func() any { return &payload.Login{} }), authH.Login)
		auth.POST("/login/verify",
			mw.ValidatePayload(func() any { return &payload.LoginVerify{} }), authH.VerifyOTP)
		auth.POST("/login/resend",
			mw.ValidatePayload(func() any { return &payload.LoginResend{} }), authH.ResendOTP)
		auth.POST("/refresh",
			mw.ValidatePayload(func() any { return &payload.Refresh{} }), authH.Refresh)
		auth.POST("/logout",
			mw.ValidatePayload(func() any { return &payload.Refresh{} }), authH.Logout)
		auth.POST("/password/reset",
			mw.ValidatePayload(func() any { return &payload.ResetRequest{} }), authH.ResetPasswordRequest)
		auth.POST("/password/reset/confirm",
			mw.ValidatePayload(func() any { return &payload.ResetConfirm{} }), authH.ResetPasswordConfirm)
	}

	profile := v1.Group("/profile")
	profile.Use(mw.RequireUser(jwtm))
	{
		profile.GET("", profH.Get)
		profile.POST("/password",
			mw.ValidatePayload(func() any { return &payload.PasswordChange{} }), profH.ChangePassword)
		profile.POST("/phone",
			mw.ValidatePayload(func() any { return &payload.PhoneChange{} }), profH.PhoneChangeRequest)
		profile.POST("/phone/verify",
			mw.ValidatePayload(func() any { return &payload.PhoneChangeVerify{} }), profH.PhoneChangeVerify)
		profile.DELETE("", profH.Delete)
	}

	return r
}
