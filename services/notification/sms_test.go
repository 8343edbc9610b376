package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSMSGatewaySendsJSON(t *testing.T) {
	var got smsRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	g := NewHTTPSMSGateway(srv.URL, "key-1", "HMSRVE")
	require.NoError(t, g.SendSMS(context.Background(), "9876543210", "hello"))

	assert.Equal(t, "Bearer key-1", auth)
	assert.Equal(t, smsRequest{To: "919876543210", Sender: "HMSRVE", Message: "hello"}, got)
}

func TestHTTPSMSGatewayReportsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	err := NewHTTPSMSGateway(srv.URL, "k", "S").SendSMS(context.Background(), "9876543210", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
	assert.Contains(t, err.Error(), "quota exceeded")
}
