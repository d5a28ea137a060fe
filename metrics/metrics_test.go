package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespace(t *testing.T) {
	assert.Equal(t, "tee_wallet_runtime", Namespace("github.com/ruteri/tee-wallet-runtime"))
	assert.Equal(t, "abc", Namespace("abc"))
}

func TestOperationMetrics(t *testing.T) {
	srv, err := New("github.com/ruteri/tee-wallet-runtime", "127.0.0.1:0")
	require.NoError(t, err)

	ops := srv.Operations()
	ops.ObserveOperation("create_wallet", "success", 5*time.Millisecond)
	ops.ObserveOperation("create_wallet", "success", 5*time.Millisecond)
	ops.ObserveOperation("sign_transaction", "operation_failed", time.Millisecond)
	ops.ObserveConfigure("enclave", "simulated", "success")

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `tee_wallet_runtime_wallet_operations_total{operation="create_wallet",outcome="success"} 2`)
	assert.Contains(t, body, `tee_wallet_runtime_wallet_operations_total{operation="sign_transaction",outcome="operation_failed"} 1`)
	assert.Contains(t, body, `tee_wallet_runtime_wallet_operation_duration_seconds_count{operation="create_wallet"} 2`)
	assert.Contains(t, body, `tee_wallet_runtime_backend_configurations_total{kind="enclave",mode="simulated",outcome="success"} 1`)
}

func TestNilOperationMetrics(t *testing.T) {
	var ops *OperationMetrics
	assert.NotPanics(t, func() {
		ops.ObserveOperation("create_wallet", "success", time.Second)
		ops.ObserveConfigure("enclave", "local", "success")
	})
}
