package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Tijigui/fintrack/internal/auth"
	"github.com/Tijigui/fintrack/internal/core"
	applog "github.com/Tijigui/fintrack/internal/log"
	"github.com/Tijigui/fintrack/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := applog.New(applog.DefaultConfig())
	s := NewServer(":0", memory.New(), auth.NewManager("test-secret", time.Hour), nil, logger)
	ts := httptest.NewServer(s.HTTPHandler())
	t.Cleanup(func() {
		ts.Close()
		s.Shutdown(context.Background())
	})
	return ts
}

type testClient struct {
	t     *testing.T
	base  string
	token string
}

func (c *testClient) do(method, path string, payload any) (*http.Response, []byte) {
	c.t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			c.t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.base+path, body)
	if err != nil {
		c.t.Fatalf("build request: %v", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("read response: %v", err)
	}
	return resp, raw
}

func (c *testClient) mustJSON(method, path string, payload any, wantStatus int, out any) {
	c.t.Helper()
	resp, raw := c.do(method, path, payload)
	if resp.StatusCode != wantStatus {
		c.t.Fatalf("%s %s: status %d, want %d: %s", method, path, resp.StatusCode, wantStatus, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			c.t.Fatalf("unmarshal %s response: %v: %s", path, err, raw)
		}
	}
}

func signUp(t *testing.T, ts *httptest.Server, email string) *testClient {
	t.Helper()
	c := &testClient{t: t, base: ts.URL}
	var resp authResponse
	c.mustJSON(http.MethodPost, "/api/register", registerRequest{
		Email: email, Name: "Tester", Password: "hunter2hunter2",
	}, http.StatusCreated, &resp)
	if resp.Token == "" {
		t.Fatal("register returned no token")
	}
	c.token = resp.Token
	return c
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)
	c := signUp(t, ts, "alice@example.com")

	// Same email again conflicts.
	resp, _ := c.do(http.MethodPost, "/api/register", registerRequest{
		Email: "alice@example.com", Name: "Dup", Password: "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register: status %d, want 409", resp.StatusCode)
	}

	var login authResponse
	c.mustJSON(http.MethodPost, "/api/login", loginRequest{
		Email: "alice@example.com", Password: "hunter2hunter2",
	}, http.StatusOK, &login)
	if login.Profile.Email != "alice@example.com" {
		t.Fatalf("login profile = %+v", login.Profile)
	}

	resp, _ = c.do(http.MethodPost, "/api/login", loginRequest{
		Email: "alice@example.com", Password: "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d, want 401", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)
	c := &testClient{t: t, base: ts.URL}

	resp, _ := c.do(http.MethodGet, "/api/accounts", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", resp.StatusCode)
	}

	c.token = "garbage"
	resp, _ = c.do(http.MethodGet, "/api/accounts", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d, want 401", resp.StatusCode)
	}
}

func TestTransactionPairedWriteOverAPI(t *testing.T) {
	ts := newTestServer(t)
	c := signUp(t, ts, "bob@example.com")

	var account core.Account
	c.mustJSON(http.MethodPost, "/api/accounts", map[string]any{
		"name": "Main", "bank": "Acme", "type": "checking",
		"balance": map[string]int64{"cents": 10000},
	}, http.StatusCreated, &account)
	if account.Balance.Cents != 10000 {
		t.Fatalf("account balance = %d", account.Balance.Cents)
	}

	var created transactionResponse
	c.mustJSON(http.MethodPost, "/api/transactions", map[string]any{
		"description": "groceries",
		"amount":      map[string]int64{"cents": 3000},
		"type":        "expense",
		"category":    "Food",
		"account_id":  account.ID,
		"date":        "2025-06-10T00:00:00Z",
	}, http.StatusCreated, &created)
	if created.Account.Balance.Cents != 7000 {
		t.Fatalf("embedded balance = %d, want 7000", created.Account.Balance.Cents)
	}

	var deleted map[string]core.Account
	c.mustJSON(http.MethodDelete, fmt.Sprintf("/api/transactions/%d", created.Transaction.ID),
		nil, http.StatusOK, &deleted)
	if deleted["account"].Balance.Cents != 10000 {
		t.Fatalf("restored balance = %d, want 10000", deleted["account"].Balance.Cents)
	}
}

func TestValidationErrorsCarryFieldMap(t *testing.T) {
	ts := newTestServer(t)
	c := signUp(t, ts, "carol@example.com")

	resp, raw := c.do(http.MethodPost, "/api/accounts", map[string]any{
		"name": "", "bank": "Acme", "type": "offshore",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422: %s", resp.StatusCode, raw)
	}

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Fields["name"] == "" || body.Fields["type"] == "" {
		t.Fatalf("fields = %v, want name and type entries", body.Fields)
	}
}

func TestForeignRowsLookAbsent(t *testing.T) {
	ts := newTestServer(t)
	owner := signUp(t, ts, "dave@example.com")
	other := signUp(t, ts, "eve@example.com")

	var account core.Account
	owner.mustJSON(http.MethodPost, "/api/accounts", map[string]any{
		"name": "Main", "bank": "Acme", "type": "savings",
	}, http.StatusCreated, &account)

	resp, _ := other.do(http.MethodDelete, fmt.Sprintf("/api/accounts/%d", account.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign delete: status %d, want 404", resp.StatusCode)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	ts := newTestServer(t)
	c := signUp(t, ts, "frank@example.com")

	var account core.Account
	c.mustJSON(http.MethodPost, "/api/accounts", map[string]any{
		"name": "Main", "bank": "Acme", "type": "checking",
	}, http.StatusCreated, &account)

	today := core.DateOnly(time.Now()).Format(time.RFC3339)
	c.mustJSON(http.MethodPost, "/api/transactions", map[string]any{
		"description": "salary", "amount": map[string]int64{"cents": 100000},
		"type": "income", "category": "Salary", "account_id": account.ID, "date": today,
	}, http.StatusCreated, nil)
	c.mustJSON(http.MethodPost, "/api/transactions", map[string]any{
		"description": "groceries", "amount": map[string]int64{"cents": 20000},
		"type": "expense", "category": "Food", "account_id": account.ID, "date": today,
	}, http.StatusCreated, nil)

	var summary summaryResponse
	c.mustJSON(http.MethodGet, "/api/summary", nil, http.StatusOK, &summary)
	if summary.Overview.MonthlyIncome.Cents != 100000 {
		t.Errorf("monthly income = %d, want 100000", summary.Overview.MonthlyIncome.Cents)
	}
	if summary.Overview.MonthlyExpenses.Cents != 20000 {
		t.Errorf("monthly expenses = %d, want 20000", summary.Overview.MonthlyExpenses.Cents)
	}
	if summary.Overview.SavingsRate != 80.0 {
		t.Errorf("savings rate = %v, want 80", summary.Overview.SavingsRate)
	}
	if len(summary.Categories) != 1 || summary.Categories[0].Category != "Food" {
		t.Errorf("categories = %+v", summary.Categories)
	}

	// Second call is served from cache and agrees with the first.
	var again summaryResponse
	c.mustJSON(http.MethodGet, "/api/summary", nil, http.StatusOK, &again)
	if again.Overview != summary.Overview {
		t.Errorf("cached overview differs: %+v vs %+v", again.Overview, summary.Overview)
	}
}

func TestSeriesEndpointValidation(t *testing.T) {
	ts := newTestServer(t)
	c := signUp(t, ts, "grace@example.com")

	resp, _ := c.do(http.MethodGet, "/api/summary/series?period=hourly", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad period: status %d, want 400", resp.StatusCode)
	}

	var points []core.SeriesPoint
	c.mustJSON(http.MethodGet, "/api/summary/series?period=monthly&count=3", nil, http.StatusOK, &points)
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
}

func TestImportAndExport(t *testing.T) {
	ts := newTestServer(t)
	c := signUp(t, ts, "heidi@example.com")

	var account core.Account
	c.mustJSON(http.MethodPost, "/api/accounts", map[string]any{
		"name": "Main", "bank": "Acme", "type": "checking",
	}, http.StatusCreated, &account)

	csvBody := "Date,Description,Amount\n2025-01-10,groceries,-30.50\nbroken,row,x\n2025-01-15,salary,1000.00\n"
	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/api/import/transactions?account_id=%d", ts.URL, account.ID),
		strings.NewReader(csvBody))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	defer resp.Body.Close()
	var summary struct {
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("decode import summary: %v", err)
	}
	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Fatalf("summary = %+v, want 2 succeeded 1 failed", summary)
	}

	expResp, raw := c.do(http.MethodGet, "/api/export?type=transactions", nil)
	if expResp.StatusCode != http.StatusOK {
		t.Fatalf("export: status %d", expResp.StatusCode)
	}
	out := string(raw)
	if !strings.HasPrefix(out, "\ufeff") {
		t.Error("export should start with a BOM")
	}
	if !strings.Contains(out, "groceries,-30.50") || !strings.Contains(out, "salary,1000.00") {
		t.Errorf("export missing imported rows:\n%s", out)
	}
	if cd := expResp.Header.Get("Content-Disposition"); !strings.Contains(cd, "transactions_") {
		t.Errorf("content disposition = %q", cd)
	}
}

func TestHealthProbes(t *testing.T) {
	ts := newTestServer(t)
	c := &testClient{t: t, base: ts.URL}

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, _ := c.do(http.MethodGet, path, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status %d, want 200", path, resp.StatusCode)
		}
	}
}
