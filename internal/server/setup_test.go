package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fintrack/internal/config"
	"fintrack/internal/ledger"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/testutil"
	"fintrack/internal/validator"
)

const testOpsKey = "ops-test-key"

// testApp holds the full application stack for flow tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Mail   *outbox
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{
		JWTSecret:            "server-test-secret",
		JWTExpirationDur:     15 * time.Minute,
		RefreshExpirationDur: time.Hour,
	})
}

// outbox captures reset links instead of mailing them.
type outbox struct {
	mu    sync.Mutex
	links map[string]string
}

func (o *outbox) SendPasswordReset(to, _, resetURL string, _ time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.links[to] = resetURL
	return nil
}

// token returns the reset token last mailed to the address.
func (o *outbox) token(t *testing.T, to string) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	link, ok := o.links[to]
	if !ok {
		t.Fatalf("no reset mail sent to %s", to)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("bad reset link %q: %v", link, err)
	}
	return u.Query().Get("token")
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	mail := &outbox{links: map[string]string{}}
	cfg := &config.Config{
		AppBaseURL:       "http://app.test",
		PasswordResetTTL: time.Hour,
		TopExpensesMax:   50,
	}
	store := ledger.NewStore(db)

	router := NewRouter(Services{
		Users:        services.NewUserService(db, mail, cfg),
		Transactions: services.NewTransactionService(db),
		Budgets:      services.NewBudgetService(db, store),
		Reports:      services.NewReportService(store, cfg.TopExpensesMax),
	}, Options{
		CORSAllowedOrigin: "*",
		OpsAPIKey:         testOpsKey,
	})

	return &testApp{DB: db, Router: router, Mail: mail}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var result []interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createTransaction posts a transaction and returns its ID.
func (app *testApp) createTransaction(t *testing.T, token, typ, amount, category, date string) string {
	t.Helper()
	body := fmt.Sprintf(`{"date":%q,"description":"%s purchase","category":%q,"amount":%q,"type":%q}`,
		date, category, category, amount, typ)
	rec := app.request("POST", "/api/v1/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
	return tx["id"].(string)
}

// today is the server's current calendar date.
func today() models.Date {
	return models.DateOf(time.Now())
}
