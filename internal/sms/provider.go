package sms

// Provider sends one-time codes to a mobile number. Numbers are stored
// without the country prefix; implementations add it as needed.
type Provider interface {
	Send(mobile, body string) error
}
