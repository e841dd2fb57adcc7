package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/iho/borrowbook/internal/adapter/http"
	"github.com/iho/borrowbook/internal/adapter/http/dto"
	"github.com/iho/borrowbook/internal/adapter/http/handler"
	postgresrepo "github.com/iho/borrowbook/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/borrowbook/internal/adapter/repository/redis"
	"github.com/iho/borrowbook/internal/domain"
	"github.com/iho/borrowbook/internal/infrastructure/auth"
	"github.com/iho/borrowbook/internal/infrastructure/logger"
	"github.com/iho/borrowbook/internal/report"
	"github.com/iho/borrowbook/internal/usecase"
	"github.com/iho/borrowbook/tests/testutil"
)

type testServer struct {
	router http.Handler
	jwt    *auth.JWTManager
	db     *testutil.TestDB
	redis  *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(context.Background())

	mr := miniredis.RunT(t)
	redisClient := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	pool := testDB.Pool
	txManager := postgresrepo.NewTxManager(pool)
	entryRepo := postgresrepo.NewEntryRepository(pool)
	userRepo := postgresrepo.NewUserRepository(pool)
	cache := redisrepo.NewCache(redisClient)
	sessions := redisrepo.NewSessionStore(redisClient)
	idGen := postgresrepo.NewULIDGenerator()

	entryUC := usecase.NewEntryUseCase(entryRepo, txManager, idGen, cache, nil)
	ledgerUC := usecase.NewLedgerUseCase(entryRepo, cache, nil)
	userUC := usecase.NewUserUseCase(userRepo, entryRepo, idGen)
	reportUC := usecase.NewReportUseCase(ledgerUC, report.NewPDFRenderer())

	jwtManager := auth.NewJWTManager("integration-secret", 15*time.Minute)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AuthHandler:   handler.NewAuthHandler(userUC, jwtManager, sessions, 24*time.Hour, 720*time.Hour, nil),
		EntryHandler:  handler.NewEntryHandler(entryUC),
		LedgerHandler: handler.NewLedgerHandler(ledgerUC),
		ReportHandler: handler.NewReportHandler(reportUC, nil),
		AdminHandler:  handler.NewAdminHandler(userUC),
		HealthHandler: handler.NewHealthHandler(pool, redisClient),
		JWTManager:    jwtManager,
		Logger:        logger.New(logger.Config{Level: "error", Format: "json"}),
	})

	return &testServer{router: router, jwt: jwtManager, db: testDB, redis: mr}
}

func (s *testServer) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()

	token, err := s.jwt.Generate(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestBorrowFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	srv := newTestServer(t)
	ctx := context.Background()

	user := srv.db.CreateTestUser(ctx, "flow@example.com", "password123", domain.RoleMember)
	token := srv.tokenFor(t, user)

	// Record a borrow and a partial repay under differently-spelled names.
	rec := srv.do(t, http.MethodPost, "/api/v1/borrow", token, dto.CreateEntryRequest{
		Name:   "  john   DOE ",
		Amount: decimal.NewFromInt(100),
		Type:   "borrow",
		Date:   "2024-01-10",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("borrow failed: %d %s", rec.Code, rec.Body.String())
	}

	var created dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode entry: %v", err)
	}
	if created.Name != "John Doe" {
		t.Fatalf("expected normalized name John Doe, got %q", created.Name)
	}

	rec = srv.do(t, http.MethodPost, "/api/v1/borrow", token, dto.CreateEntryRequest{
		Name:   "John Doe",
		Amount: decimal.NewFromInt(40),
		Type:   "repay",
		Date:   "2024-02-05",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("repay failed: %d %s", rec.Code, rec.Body.String())
	}

	// Overview groups both under one counterparty.
	rec = srv.do(t, http.MethodGet, "/api/v1/ledger/overview", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("overview failed: %d %s", rec.Code, rec.Body.String())
	}

	var overview dto.OverviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &overview); err != nil {
		t.Fatalf("failed to decode overview: %v", err)
	}

	if len(overview.Rows) != 1 {
		t.Fatalf("expected one counterparty row, got %d", len(overview.Rows))
	}

	row := overview.Rows[0]
	if row.Name != "John Doe" {
		t.Fatalf("expected John Doe, got %q", row.Name)
	}
	if !row.Summary.Outstanding.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected outstanding 60, got %s", row.Summary.Outstanding)
	}
	if row.Summary.LastDate != "2024-02-05" {
		t.Fatalf("expected last date 2024-02-05, got %q", row.Summary.LastDate)
	}
	if !overview.GrandTotal.Outstanding.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected grand total 60, got %s", overview.GrandTotal.Outstanding)
	}

	// Detail shows the running balance after each entry.
	rec = srv.do(t, http.MethodGet, "/api/v1/ledger/people/John%20Doe", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail failed: %d %s", rec.Code, rec.Body.String())
	}

	var detail dto.CounterpartyDetailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("failed to decode detail: %v", err)
	}

	if len(detail.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(detail.Lines))
	}
	if !detail.Lines[0].BalanceAfter.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected first balance 100, got %s", detail.Lines[0].BalanceAfter)
	}
	if !detail.Lines[1].BalanceAfter.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected final balance 60, got %s", detail.Lines[1].BalanceAfter)
	}

	// PDF export returns a document.
	rec = srv.do(t, http.MethodGet, "/api/v1/reports/pdf", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export failed: %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected a PDF body")
	}
}

func TestEntryOwnershipIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	srv := newTestServer(t)
	ctx := context.Background()

	alice := srv.db.CreateTestUser(ctx, "alice@example.com", "password123", domain.RoleMember)
	bob := srv.db.CreateTestUser(ctx, "bob@example.com", "password123", domain.RoleMember)

	entry := srv.db.CreateTestEntry(ctx, alice.ID, "Ravi", decimal.NewFromInt(50), domain.EntryTypeBorrow, time.Now().UTC())

	bobToken := srv.tokenFor(t, bob)

	// Bob cannot see, update or delete Alice's entry.
	rec := srv.do(t, http.MethodGet, "/api/v1/ledger/overview", bobToken, nil)
	var overview dto.OverviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &overview); err != nil {
		t.Fatalf("failed to decode overview: %v", err)
	}
	if len(overview.Rows) != 0 {
		t.Fatalf("expected empty overview for bob, got %d rows", len(overview.Rows))
	}

	rec = srv.do(t, http.MethodDelete, "/api/v1/borrow/"+entry.ID, bobToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign entry, got %d", rec.Code)
	}
}

func TestLoginAndRefreshFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	srv := newTestServer(t)
	ctx := context.Background()

	srv.db.CreateTestUser(ctx, "login@example.com", "password123", domain.RoleMember)

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}

	var refreshCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			refreshCookie = c
		}
	}
	if refreshCookie == nil || refreshCookie.Value == "" {
		t.Fatalf("expected refresh_token cookie")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh-token", nil)
	req.AddCookie(refreshCookie)
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d %s", rr.Code, rr.Body.String())
	}

	var resp dto.LoginResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode refresh response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatalf("expected a fresh access token")
	}
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	srv := newTestServer(t)
	ctx := context.Background()

	member := srv.db.CreateTestUser(ctx, "member@example.com", "password123", domain.RoleMember)
	admin := srv.db.CreateTestUser(ctx, "admin@example.com", "password123", domain.RoleAdmin)

	rec := srv.do(t, http.MethodGet, "/api/v1/admin/users", srv.tokenFor(t, member), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/api/v1/admin/users", srv.tokenFor(t, admin), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodPost, "/api/v1/admin/promote", srv.tokenFor(t, admin), dto.PromoteRequest{UserID: member.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("promote failed: %d %s", rec.Code, rec.Body.String())
	}

	var promoted dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &promoted); err != nil {
		t.Fatalf("failed to decode promoted user: %v", err)
	}
	if promoted.Role != string(domain.RoleAdmin) {
		t.Fatalf("expected admin role, got %s", promoted.Role)
	}
}
