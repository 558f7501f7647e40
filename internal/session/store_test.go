package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Tijigui/fintrack/internal/core"
	"github.com/Tijigui/fintrack/internal/gateway"
)

// A create response without the paired account forces a full account resync.
// The resync retries, so one flaky response must not leave the store stale.
func TestMissingPairedAccountResyncsWithRetry(t *testing.T) {
	ctx := context.Background()
	var accountCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"transaction": core.Transaction{
				ID: 1, Description: "groceries", Amount: core.Money{Cents: 3000},
				Type: core.Expense, Category: "Food", AccountID: 7, Date: date(2025, 4, 10),
			},
		})
	})
	mux.HandleFunc("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		if accountCalls.Add(1) == 1 {
			http.Error(w, `{"error":"temporarily unavailable"}`, http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]core.Account{{
			ID: 7, Name: "Main", Bank: "Acme", Type: core.Checking,
			Balance: core.Money{Cents: 7000},
		}})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	tokens := &gateway.MemoryTokenStore{}
	tokens.SetToken("token")
	client := gateway.NewClient(ts.URL, tokens)
	accounts := newAccountStore(client, tokens)
	txs := newTransactionStore(client, tokens, accounts)

	if _, err := txs.Add(ctx, core.Transaction{
		Description: "groceries", Amount: core.Money{Cents: 3000},
		Type: core.Expense, Category: "Food", AccountID: 7, Date: date(2025, 4, 10),
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if got := accountCalls.Load(); got != 2 {
		t.Fatalf("account loads = %d, want a failed first attempt and a successful retry", got)
	}
	items := accounts.Items()
	if len(items) != 1 || items[0].Balance.Cents != 7000 {
		t.Fatalf("accounts after resync = %+v, want balance 7000", items)
	}
}
