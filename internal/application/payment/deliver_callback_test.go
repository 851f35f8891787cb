package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	paymentApp "github.com/cassiomorais/payment-orchestrator/internal/application/payment"
	"github.com/cassiomorais/payment-orchestrator/internal/domain/transaction"
	"github.com/cassiomorais/payment-orchestrator/internal/infrastructure/config"
	"github.com/cassiomorais/payment-orchestrator/internal/testutil"
)

func callbackConfig(host string) config.CallbackConfig {
	return config.CallbackConfig{
		OrderAPIHost: host,
		Username:     "svc",
		Password:     "secret",
		Timeout:      5 * time.Second,
	}
}

type receivedCallback struct {
	TransactionID  string `json:"transaction_id"`
	ApprovalStatus bool   `json:"approval_status"`
	Date           string `json:"date"`
	Message        string `json:"message"`
}

func TestDeliverCallback_Success(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	tx := testutil.NewApprovedTransaction(21, 30)
	repo.Add(tx)

	var got receivedCallback
	var gotPath string
	var authOK bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, _ := r.BasicAuth()
		authOK = user == "svc" && pass == "secret"
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	queue := &testutil.MockRedeliveryQueue{}
	uc := paymentApp.NewDeliverCallbackUseCase(repo, srv.Client(), callbackConfig(srv.URL), queue, nil)

	updated := uc.Execute(ctx, tx)

	if updated.CallbackStatus != transaction.CallbackDelivered {
		t.Errorf("expected DELIVERED, got %s", updated.CallbackStatus)
	}
	if gotPath != "/order/payment_confirm/21" {
		t.Errorf("expected default order confirm path, got %s", gotPath)
	}
	if !authOK {
		t.Error("expected basic auth credentials on the callback request")
	}
	if got.TransactionID != tx.ID {
		t.Errorf("expected transaction id %s in payload, got %s", tx.ID, got.TransactionID)
	}
	if !got.ApprovalStatus {
		t.Error("expected approval_status true for an approved transaction")
	}
	if len(queue.Enqueued()) != 0 {
		t.Error("delivered callback must not be enqueued for redelivery")
	}
}

func TestDeliverCallback_DeclinedSendsApprovalFalse(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	tx := testutil.NewTestTransaction(22, 30)
	tx.MarkStatus(transaction.StatusDeclined, "p22", "card declined")
	repo.Add(tx)

	var got receivedCallback
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	uc := paymentApp.NewDeliverCallbackUseCase(repo, srv.Client(), callbackConfig(srv.URL), nil, nil)
	updated := uc.Execute(ctx, tx)

	if updated.CallbackStatus != transaction.CallbackDelivered {
		t.Errorf("expected DELIVERED for a 201 response, got %s", updated.CallbackStatus)
	}
	if got.ApprovalStatus {
		t.Error("expected approval_status false for a declined transaction")
	}
	if got.Message != "card declined" {
		t.Errorf("expected decline reason in message, got %q", got.Message)
	}
}

func TestDeliverCallback_ReceiverErrorMarksFailedAndEnqueues(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	tx := testutil.NewApprovedTransaction(23, 30)
	repo.Add(tx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	queue := &testutil.MockRedeliveryQueue{}
	uc := paymentApp.NewDeliverCallbackUseCase(repo, srv.Client(), callbackConfig(srv.URL), queue, nil)

	updated := uc.Execute(ctx, tx)

	if updated.CallbackStatus != transaction.CallbackFailed {
		t.Errorf("expected FAILED, got %s", updated.CallbackStatus)
	}
	if updated.LastCallbackError != "Callback failed: status 500" {
		t.Errorf("unexpected callback error: %q", updated.LastCallbackError)
	}
	enqueued := queue.Enqueued()
	if len(enqueued) != 1 || enqueued[0] != tx.ID {
		t.Errorf("expected redelivery enqueued for %s, got %v", tx.ID, enqueued)
	}
}

func TestDeliverCallback_TransportErrorMarksFailed(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	tx := testutil.NewApprovedTransaction(24, 30)
	repo.Add(tx)

	// Nothing listens on this port.
	uc := paymentApp.NewDeliverCallbackUseCase(repo, nil, callbackConfig("http://127.0.0.1:1"), nil, nil)

	updated := uc.Execute(ctx, tx)

	if updated.CallbackStatus != transaction.CallbackFailed {
		t.Errorf("expected FAILED, got %s", updated.CallbackStatus)
	}
	if updated.LastCallbackError == "" {
		t.Error("expected transport error recorded")
	}
}

func TestDeliverCallback_MetadataTargetWins(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tx := testutil.NewApprovedTransaction(25, 30)
	tx.Metadata[transaction.MetadataCallbackURL] = srv.URL + "/custom/hook"
	repo.Add(tx)

	// OrderAPIHost points nowhere reachable: the metadata URL must win.
	uc := paymentApp.NewDeliverCallbackUseCase(repo, srv.Client(), callbackConfig("http://127.0.0.1:1"), nil, nil)
	updated := uc.Execute(ctx, tx)

	if updated.CallbackStatus != transaction.CallbackDelivered {
		t.Errorf("expected DELIVERED, got %s", updated.CallbackStatus)
	}
	if gotPath != "/custom/hook" {
		t.Errorf("expected metadata callback target, got %s", gotPath)
	}
}

func TestDeliverCallback_BearerTokenWhenNoBasicCredentials(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	tx := testutil.NewApprovedTransaction(26, 30)
	repo.Add(tx)

	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.CallbackConfig{
		OrderAPIHost: srv.URL,
		Token:        "tok-123",
		Timeout:      5 * time.Second,
	}
	uc := paymentApp.NewDeliverCallbackUseCase(repo, srv.Client(), cfg, nil, nil)
	uc.Execute(ctx, tx)

	if !strings.HasPrefix(authHeader, "Bearer tok-123") {
		t.Errorf("expected bearer token auth, got %q", authHeader)
	}
}
