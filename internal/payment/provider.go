package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ProviderOrder is the provider-side order descriptor returned to the client
// for use with the checkout widget.
type ProviderOrder struct {
	OrderID          string
	AmountMinorUnits int64
	Currency         string
}

// Provider is the payment gateway used for order creation. Callback
// signature checks stay local: they need only the shared secret.
type Provider interface {
	CreateOrder(amountMinorUnits int64, currency, receipt string, notes map[string]interface{}) (*ProviderOrder, error)
}

// VerifySignature recomputes the provider's HMAC-SHA256 over
// "orderID|paymentID" and compares it to the supplied hex signature in
// constant time.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
