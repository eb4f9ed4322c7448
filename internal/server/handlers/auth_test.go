package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/domain"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/security"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/sms"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRefreshRotatesJTI(t *testing.T) {
	rdb := newTestRedis(t)
	jwtm := security.NewJWTManager("test-key", time.Minute, time.Hour)
	refresh := store.NewRefreshStore(rdb, time.Hour)
	h := NewAuthHandler(zap.NewNop(), nil, nil, nil, nil, refresh, jwtm, nil, time.Minute, 6)

	r := gin.New()
	r.POST("/refresh", h.Refresh)

	tokens, claims, err := jwtm.Issue(uuid.New())
	require.NoError(t, err)
	require.NoError(t, refresh.Put(context.Background(), claims.UserID, claims.JTI))

	w := postJSON(t, r, "/refresh", gin.H{"refresh_token": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Data struct {
			Tokens security.Tokens `json:"tokens"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	rotated := out.Data.Tokens.RefreshToken
	require.NotEmpty(t, rotated)

	// replaying the consumed token is rejected
	w = postJSON(t, r, "/refresh", gin.H{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// the rotated token's JTI was whitelisted, so it refreshes in turn
	w = postJSON(t, r, "/refresh", gin.H{"refresh_token": rotated})
	assert.Equal(t, http.StatusOK, w.Code)
}

func newResendHandler(t *testing.T, rdb *redis.Client, gatewayURL string) (*AuthHandler, *store.LoginFlowStore) {
	t.Helper()
	flows := store.NewLoginFlowStore(rdb, "secret", time.Minute, 3)
	limiter := store.NewSendLimiter(rdb, time.Minute, 10, 30)
	smsClient := sms.NewGatewayClient(gatewayURL, "test-token", "")
	h := NewAuthHandler(zap.NewNop(), nil, flows, nil, limiter, nil, nil, smsClient, time.Minute, 6)
	return h, flows
}

func TestResendOTPDeliveredCodeVerifies(t *testing.T) {
	rdb := newTestRedis(t)

	var delivered string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		delivered, _ = body["code"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]string{"request_id": "req-1"},
		})
	}))
	defer srv.Close()

	h, flows := newResendHandler(t, rdb, srv.URL)
	r := gin.New()
	r.POST("/resend", h.ResendOTP)

	ctx := context.Background()
	flowID, err := flows.Create(ctx, uuid.New(), "+919876543210", "111111")
	require.NoError(t, err)

	w := postJSON(t, r, "/resend", gin.H{"flow_id": flowID})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, delivered)

	// the pre-resend code no longer verifies
	_, err = flows.Verify(ctx, flowID, "111111")
	assert.ErrorIs(t, err, store.ErrFlowInvalidOTP)

	// the code that actually went out does
	_, err = flows.Verify(ctx, flowID, delivered)
	assert.NoError(t, err)
}

func TestResendOTPRefusesConsumedFlow(t *testing.T) {
	rdb := newTestRedis(t)

	gatewayCalled := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gatewayCalled = true
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	h, flows := newResendHandler(t, rdb, srv.URL)
	r := gin.New()
	r.POST("/resend", h.ResendOTP)

	ctx := context.Background()
	flowID, err := flows.Create(ctx, uuid.New(), "+919876543210", "111111")
	require.NoError(t, err)
	require.NoError(t, rdb.HSet(ctx, "loginflow:"+flowID, "step", string(domain.StepDone)).Err())

	w := postJSON(t, r, "/resend", gin.H{"flow_id": flowID})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, gatewayCalled, "no SMS may leave for a flow that cannot be reissued")
}

func TestResendOTPUnknownFlow(t *testing.T) {
	rdb := newTestRedis(t)

	gatewayCalled := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gatewayCalled = true
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	h, _ := newResendHandler(t, rdb, srv.URL)
	r := gin.New()
	r.POST("/resend", h.ResendOTP)

	w := postJSON(t, r, "/resend", gin.H{"flow_id": uuid.NewString()})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, gatewayCalled)
}
