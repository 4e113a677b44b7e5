package payment

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayProvider creates orders through the Razorpay Orders API.
type RazorpayProvider struct {
	client *razorpay.Client
}

func NewRazorpayProvider(keyID, keySecret string) *RazorpayProvider {
	return &RazorpayProvider{
		client: razorpay.NewClient(keyID, keySecret),
	}
}

func (p *RazorpayProvider) CreateOrder(amountMinorUnits int64, currency, receipt string, notes map[string]interface{}) (*ProviderOrder, error) {
	data := map[string]interface{}{
		"amount":   amountMinorUnits,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	body, err := p.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create failed: %w", err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return nil, fmt.Errorf("razorpay order create returned no id")
	}

	return &ProviderOrder{
		OrderID:          orderID,
		AmountMinorUnits: amountMinorUnits,
		Currency:         currency,
	}, nil
}
