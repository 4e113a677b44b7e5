package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "key_secret"
	good := sign(secret, "order_123", "pay_456")

	assert.True(t, VerifySignature("order_123", "pay_456", good, secret))
	assert.False(t, VerifySignature("order_123", "pay_456", good, "other_secret"))
	assert.False(t, VerifySignature("order_999", "pay_456", good, secret))
	assert.False(t, VerifySignature("order_123", "pay_999", good, secret))
	assert.False(t, VerifySignature("order_123", "pay_456", "", secret))
	assert.False(t, VerifySignature("order_123", "pay_456", "deadbeef", secret))
}

func TestVerifySignatureIsCaseSensitive(t *testing.T) {
	secret := "key_secret"
	good := sign(secret, "order_123", "pay_456")

	upper := []byte(good)
	for i, c := range upper {
		if c >= 'a' && c <= 'f' {
			upper[i] = c - 32
			break
		}
	}
	assert.False(t, VerifySignature("order_123", "pay_456", string(upper), secret))
}
