package transaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	expiresAt := time.Now().UTC().Add(15 * time.Minute)
	tx := New(42, 99.90, "mercadopago", "https://pay.local/tx/42", &expiresAt)

	require.NotEmpty(t, tx.ID)
	assert.Equal(t, int64(42), tx.OrderID)
	assert.Equal(t, 99.90, tx.Amount)
	assert.Equal(t, StatusPending, tx.Status)
	assert.Equal(t, CallbackPending, tx.CallbackStatus)
	assert.Equal(t, "mercadopago", tx.Provider)
	assert.Equal(t, "https://pay.local/tx/42", tx.QROrLink)
	assert.Equal(t, &expiresAt, tx.ExpiresAt)
	assert.NotNil(t, tx.Metadata)
	assert.Empty(t, tx.ProviderTxID)
	assert.Empty(t, tx.LastError)
}

func TestNew_UniqueIDs(t *testing.T) {
	a := New(1, 10, "", "", nil)
	b := New(1, 10, "", "", nil)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestMarkStatus_SetsProviderTxID(t *testing.T) {
	tx := New(1, 10, "", "", nil)
	tx.MarkStatus(StatusApproved, "prov-123", "")

	assert.Equal(t, StatusApproved, tx.Status)
	assert.Equal(t, "prov-123", tx.ProviderTxID)
	assert.Empty(t, tx.LastError)
}

func TestMarkStatus_EmptyProviderTxIDKeepsExisting(t *testing.T) {
	tx := New(1, 10, "", "", nil)
	tx.MarkStatus(StatusApproved, "prov-123", "")
	tx.MarkStatus(StatusDeclined, "", "card declined")

	assert.Equal(t, StatusDeclined, tx.Status)
	assert.Equal(t, "prov-123", tx.ProviderTxID)
	assert.Equal(t, "card declined", tx.LastError)
}

func TestMarkStatus_ErrMsgReplacesOutright(t *testing.T) {
	tx := New(1, 10, "", "", nil)
	tx.MarkStatus(StatusDeclined, "p1", "first failure")
	tx.MarkStatus(StatusApproved, "", "")

	assert.Empty(t, tx.LastError)
}

func TestMarkCallback(t *testing.T) {
	tx := New(1, 10, "", "", nil)
	tx.MarkCallback(CallbackFailed, "Callback failed: status 500")

	assert.Equal(t, CallbackFailed, tx.CallbackStatus)
	assert.Equal(t, "Callback failed: status 500", tx.LastCallbackError)

	tx.MarkCallback(CallbackDelivered, "")
	assert.Equal(t, CallbackDelivered, tx.CallbackStatus)
	assert.Empty(t, tx.LastCallbackError)
}

func TestIsTerminal(t *testing.T) {
	tx := New(1, 10, "", "", nil)
	assert.False(t, tx.IsTerminal())

	for _, s := range []Status{StatusApproved, StatusDeclined, StatusExpired} {
		tx.Status = s
		assert.True(t, tx.IsTerminal(), string(s))
	}
}
