package sms

import (
	"fmt"

	"mediscan_backend/internal/logger"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioProvider delivers SMS through the Twilio REST API.
type TwilioProvider struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioProvider(accountSID, authToken, fromNumber string) *TwilioProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioProvider{
		client: client,
		from:   fromNumber,
	}
}

func (p *TwilioProvider) Send(mobile, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo("+91" + mobile)
	params.SetFrom(p.from)
	params.SetBody(body)

	resp, err := p.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}

	if resp.Sid != nil {
		logger.Info("SMS sent", "sid", *resp.Sid)
	}
	return nil
}

// ConsoleProvider logs codes instead of sending them. Used in development
// when Twilio credentials are absent, matching the source servers.
type ConsoleProvider struct{}

func (ConsoleProvider) Send(mobile, body string) error {
	logger.Warn("Twilio not configured, SMS printed to log", "mobile", mobile, "body", body)
	return nil
}
