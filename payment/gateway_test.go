package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(345000), ToMinorUnits(3450))
	assert.Equal(t, int64(150050), ToMinorUnits(1500.50))
	assert.Equal(t, int64(100), ToMinorUnits(0.999)) // rounds, not truncates
	assert.Equal(t, int64(0), ToMinorUnits(0))
}

func TestInitializeTransaction(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"status":true,"data":{
			"authorization_url":"https://checkout.example/abc",
			"access_code":"abc",
			"reference":"ref-123"
		}}`))
	}))
	defer server.Close()

	g := New("sk_test_secret")
	g.BaseURL = server.URL

	tx, err := g.InitializeTransaction(context.Background(), "ada@example.com", 345000)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/abc", tx.AuthorizationURL)
	assert.Equal(t, "ref-123", tx.Reference)
	assert.Equal(t, "Bearer sk_test_secret", gotAuth)
	assert.Equal(t, "ada@example.com", gotBody["email"])
	assert.Equal(t, float64(345000), gotBody["amount"])
}

func TestInitializeTransaction_GatewayRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer server.Close()

	g := New("bad-key")
	g.BaseURL = server.URL

	_, err := g.InitializeTransaction(context.Background(), "ada@example.com", 1000)
	assert.ErrorIs(t, err, ErrGateway)
}

func TestVerifyTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref-123", r.URL.Path)
		w.Write([]byte(`{"status":true,"data":{"status":"success"}}`))
	}))
	defer server.Close()

	g := New("sk_test_secret")
	g.BaseURL = server.URL

	status, err := g.VerifyTransaction(context.Background(), "ref-123")
	require.NoError(t, err)
	assert.Equal(t, "success", status)
}

func TestVerifyTransaction_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := New("sk_test_secret")
	g.BaseURL = server.URL

	_, err := g.VerifyTransaction(context.Background(), "ref-123")
	assert.ErrorIs(t, err, ErrGateway)
}

func TestCheckoutQR(t *testing.T) {
	png, err := CheckoutQR("https://checkout.example/abc")
	require.NoError(t, err)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
