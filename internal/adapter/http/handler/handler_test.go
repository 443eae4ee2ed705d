package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"wager-settlement/internal/adapter/http/middleware"
	"wager-settlement/internal/core/domain"
	"wager-settlement/internal/core/ports"
	"wager-settlement/internal/core/ports/mocks"
	"wager-settlement/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  *gin.Engine
	wallets *mocks.MockWalletService
	games   *mocks.MockGameService
	mm      *mocks.MockMatchmaker
}

func newTestServer(t *testing.T, webhookSecret string) *testServer {
	ctrl := gomock.NewController(t)
	s := &testServer{
		wallets: mocks.NewMockWalletService(ctrl),
		games:   mocks.NewMockGameService(ctrl),
		mm:      mocks.NewMockMatchmaker(ctrl),
	}
	s.router = SetupRouter(RouterDeps{
		WalletSvc:     s.wallets,
		GameSvc:       s.games,
		Matchmaker:    s.mm,
		WebhookSecret: webhookSecret,
		Logger:        zerolog.Nop(),
	})
	return s
}

func (s *testServer) do(method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// --- Wallets ---

func TestGetBalance(t *testing.T) {
	s := newTestServer(t, "")
	s.wallets.EXPECT().GetBalance(gomock.Any(), "alice").Return(&ports.Balance{
		UserID: "alice", Available: dec("90.5"), Locked: dec("10"), Total: dec("100.5"), Currency: "USD",
	}, nil)

	w := s.do(http.MethodGet, "/api/v1/wallets/balance", "alice", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "90.5", data["available"])
	assert.Equal(t, "10", data["locked"])
	assert.Equal(t, "100.5", data["total"])
	assert.NotEmpty(t, decode(t, w)["request_id"])
}

func TestGetBalance_RequiresUser(t *testing.T) {
	s := newTestServer(t, "")
	w := s.do(http.MethodGet, "/api/v1/wallets/balance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name   string
		result *ports.WithdrawResult
		err    error
		status int
		code   string
	}{
		{"completed", &ports.WithdrawResult{WithdrawalID: "wd-1", Status: ports.WithdrawCompleted, Amount: dec("60")}, nil, http.StatusOK, ""},
		{"pending", &ports.WithdrawResult{WithdrawalID: "wd-1", Status: ports.WithdrawPending, Amount: dec("60")}, nil, http.StatusAccepted, ""},
		{"insufficient", nil, apperror.ErrInsufficientFunds("alice"), http.StatusPaymentRequired, "WAL_001"},
		{"velocity", nil, apperror.ErrFraudLimitExceeded("withdrawal"), http.StatusTooManyRequests, "WAL_003"},
		{"provider failed", nil, apperror.ErrProviderTransferFailed(errors.New("declined")), http.StatusBadGateway, "WAL_005"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, "")
			s.wallets.EXPECT().Withdraw(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req ports.WithdrawRequest) (*ports.WithdrawResult, error) {
					assert.Equal(t, "alice", req.UserID)
					assert.True(t, dec("60").Equal(req.Amount))
					return tt.result, tt.err
				})

			w := s.do(http.MethodPost, "/api/v1/wallets/withdraw", "alice", map[string]string{"amount": "60"})

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decode(t, w)["error_code"])
			}
		})
	}
}

func TestWithdraw_MalformedBody(t *testing.T) {
	s := newTestServer(t, "")
	w := s.do(http.MethodPost, "/api/v1/wallets/withdraw", "alice", map[string]string{"amount": "lots"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Webhooks ---

func depositBody() map[string]string {
	return map[string]string{
		"provider_reference": "dep-1",
		"provider":           "sandbox",
		"user_id":            "alice",
		"amount":             "100",
		"currency":           "USD",
	}
}

func TestDepositWebhook(t *testing.T) {
	s := newTestServer(t, "")
	s.wallets.EXPECT().ProcessDeposit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.DepositRequest) (*ports.DepositResult, error) {
			assert.Equal(t, "dep-1", req.ProviderReference)
			assert.True(t, dec("100").Equal(req.Amount))
			return &ports.DepositResult{Duplicate: true, Credited: dec("100"), Currency: "USD"}, nil
		})

	w := s.do(http.MethodPost, "/api/v1/webhooks/deposit", "", depositBody())

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["duplicate"])
}

func TestDepositWebhook_Validation(t *testing.T) {
	s := newTestServer(t, "")
	body := depositBody()
	body["provider_reference"] = "dep 1; drop"

	w := s.do(http.MethodPost, "/api/v1/webhooks/deposit", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDepositWebhook_Signed(t *testing.T) {
	const secret = "whsec"
	s := newTestServer(t, secret)
	s.wallets.EXPECT().ProcessDeposit(gomock.Any(), gomock.Any()).
		Return(&ports.DepositResult{Credited: dec("100"), Currency: "USD"}, nil)

	raw, err := json.Marshal(depositBody())
	require.NoError(t, err)
	ts := time.Now().Unix()

	send := func(signature string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/deposit", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.HeaderTimestamp, strconv.FormatInt(ts, 10))
		req.Header.Set(middleware.HeaderSignature, signature)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send("deadbeef"))
	assert.Equal(t, http.StatusOK, send(middleware.Sign(secret, ts, raw)))
}

func TestWithdrawalWebhook(t *testing.T) {
	s := newTestServer(t, "")
	s.wallets.EXPECT().ProcessWithdrawalResult(gomock.Any(), ports.WithdrawalResultEvent{
		ProviderReference: "cb-1",
		Provider:          "sandbox",
		WithdrawalID:      "wd-1",
		UserID:            "alice",
		Succeeded:         false,
		Reason:            "account closed",
	}).Return(&ports.WithdrawResult{WithdrawalID: "wd-1", Status: ports.WithdrawRefunded, Amount: dec("60")}, nil)

	w := s.do(http.MethodPost, "/api/v1/webhooks/withdrawal", "", map[string]string{
		"provider_reference": "cb-1",
		"provider":           "sandbox",
		"withdrawal_id":      "wd-1",
		"user_id":            "alice",
		"status":             "FAILED",
		"reason":             " account closed ",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "REFUNDED", data["status"])
}

// --- Matchmaking ---

func TestJoinQueue(t *testing.T) {
	s := newTestServer(t, "")
	req := ports.EnqueueRequest{UserID: "bob", ConnectionID: "ws-9", Stake: dec("5"), Mode: domain.GameModeDuel}

	s.mm.EXPECT().Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, got ports.EnqueueRequest) (*domain.Game, error) {
			assert.Equal(t, req.UserID, got.UserID)
			assert.Equal(t, req.ConnectionID, got.ConnectionID)
			assert.Equal(t, req.Mode, got.Mode)
			return nil, nil
		})
	w := s.do(http.MethodPost, "/api/v1/matchmaking/queue", "bob", map[string]string{"mode": "DUEL", "stake": "5", "connection_id": "ws-9"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, false, decode(t, w)["data"].(map[string]interface{})["matched"])

	game := &domain.Game{ID: uuid.New(), Mode: domain.GameModeDuel, Stake: dec("5"), Status: domain.GameStatusActive, Players: []string{"alice", "bob"}}
	s.mm.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(game, nil)
	w = s.do(http.MethodPost, "/api/v1/matchmaking/queue", "bob", map[string]string{"mode": "DUEL", "stake": "5"})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["matched"])
	assert.Equal(t, game.ID.String(), data["game"].(map[string]interface{})["id"])
}

func TestJoinQueue_Errors(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodPost, "/api/v1/matchmaking/queue", "bob", map[string]string{"mode": "CHESS", "stake": "5"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.mm.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrAlreadyQueued("bob"))
	w = s.do(http.MethodPost, "/api/v1/matchmaking/queue", "bob", map[string]string{"mode": "DUEL", "stake": "5"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "MM_001", decode(t, w)["error_code"])
}

func TestLeaveQueue(t *testing.T) {
	s := newTestServer(t, "")

	s.mm.EXPECT().Dequeue("bob").Return(true)
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/v1/matchmaking/queue", "bob", nil).Code)

	s.mm.EXPECT().Dequeue("bob").Return(false)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/matchmaking/queue", "bob", nil).Code)
}

// --- Games ---

func TestCreateGame(t *testing.T) {
	s := newTestServer(t, "")
	cp := dec("2.5")
	game := &domain.Game{ID: uuid.New(), Mode: domain.GameModeCrash, Stake: dec("10"), Status: domain.GameStatusActive, Players: []string{"carol"}, CrashPoint: &cp}
	s.games.EXPECT().Create(gomock.Any(), domain.GameModeCrash, gomock.Any(), []string{"carol"}).Return(game, nil)

	w := s.do(http.MethodPost, "/api/v1/games", "carol", map[string]string{"mode": "CRASH", "stake": "10"})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, game.ID.String(), data["id"])
	assert.NotContains(t, data, "crash_point")
}

func TestCreateGame_RejectsMatchedModes(t *testing.T) {
	s := newTestServer(t, "")
	w := s.do(http.MethodPost, "/api/v1/games", "carol", map[string]string{"mode": "DUEL", "stake": "10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGame(t *testing.T) {
	s := newTestServer(t, "")
	id := uuid.New()
	s.games.EXPECT().Get(gomock.Any(), id).Return(nil, apperror.ErrNotFound("game"))

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/games/"+id.String(), "alice", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/games/not-a-uuid", "alice", nil).Code)
}

func TestGameResult(t *testing.T) {
	s := newTestServer(t, "")
	winner := "alice"
	game := &domain.Game{ID: uuid.New(), Mode: domain.GameModeDuel, Status: domain.GameStatusCompleted, Players: []string{"alice", "bob"}, WinnerID: &winner}
	s.games.EXPECT().Complete(gomock.Any(), game.ID, "alice").Return(&ports.Resolution{Game: game, Applied: false}, nil)

	w := s.do(http.MethodPost, "/api/v1/games/"+game.ID.String()+"/result", "", map[string]string{"winner_id": "alice"})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["applied"])
	assert.Equal(t, "alice", data["game"].(map[string]interface{})["winner_id"])
}

func TestCrashResult(t *testing.T) {
	s := newTestServer(t, "")
	id := uuid.New()
	s.games.EXPECT().ResolveCrash(gomock.Any(), id, gomock.Nil()).Return(nil, apperror.ErrInvalidGameState("only house games have a crash outcome"))

	w := s.do(http.MethodPost, "/api/v1/games/"+id.String()+"/crash", "", map[string]string{})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "GAME_001", decode(t, w)["error_code"])
}

// --- Health & metrics ---

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Ping(context.Context) error { return f.err }
func (f fakeChecker) Name() string               { return f.name }

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(fakeChecker{name: "postgresql"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(fakeChecker{name: "postgresql"}, fakeChecker{name: "redis", err: errors.New("refused")})(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "degraded", resp["status"])
	redis := resp["dependencies"].(map[string]interface{})["redis"].(map[string]interface{})
	assert.Equal(t, "refused", redis["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	s.do(http.MethodGet, "/api/v1/wallets/balance", "", nil)

	w := s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
