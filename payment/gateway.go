// Package payment talks to the hosted payment gateway backing the checkout
// webview. Amounts cross the wire in minor currency units (kobo).
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultBaseURL is the hosted gateway endpoint.
const DefaultBaseURL = "https://api.paystack.co"

// ErrGateway wraps hard gateway failures. Payment errors are always surfaced
// to the user with a retry, never swallowed.
var ErrGateway = errors.New("payment: gateway error")

// Transaction is an initialized checkout the webview can load.
type Transaction struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Gateway is the HTTP client for the payment provider.
type Gateway struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

// New creates a gateway client with the given secret key.
func New(secretKey string) *Gateway {
	return &Gateway{
		BaseURL:   DefaultBaseURL,
		SecretKey: secretKey,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// ToMinorUnits converts a naira amount to kobo.
func ToMinorUnits(naira float64) int64 {
	return int64(math.Round(naira * 100))
}

// InitializeTransaction opens a checkout session for the given billing email
// and amount in minor units, returning the webview URL and reference.
func (g *Gateway) InitializeTransaction(ctx context.Context, email string, amountMinor int64) (Transaction, error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"email":  email,
		"amount": amountMinor,
	})
	var body struct {
		Status  bool        `json:"status"`
		Message string      `json:"message"`
		Data    Transaction `json:"data"`
	}
	if err := g.post(ctx, "/transaction/initialize", payload, &body); err != nil {
		return Transaction{}, err
	}
	if !body.Status {
		return Transaction{}, fmt.Errorf("%w: %s", ErrGateway, body.Message)
	}
	return body.Data, nil
}

// VerifyTransaction checks a reference after the success callback and returns
// the gateway's status string ("success", "failed", "abandoned").
func (g *Gateway) VerifyTransaction(ctx context.Context, reference string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.BaseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.SecretKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	var body struct {
		Status bool `json:"status"`
		Data   struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode verify response: %v", ErrGateway, err)
	}
	if resp.StatusCode != http.StatusOK || !body.Status {
		return "", fmt.Errorf("%w: verify returned %s", ErrGateway, resp.Status)
	}
	return body.Data.Status, nil
}

// CheckoutQR renders the authorization URL as a PNG QR code for cross-device
// handoff.
func CheckoutQR(authorizationURL string) ([]byte, error) {
	return qrcode.Encode(authorizationURL, qrcode.Medium, 256)
}

func (g *Gateway) post(ctx context.Context, path string, payload []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %s", ErrGateway, path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
