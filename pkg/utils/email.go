package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendEmail delivers one HTML message through the SMTP relay configured
// in the environment. Both notification templates render to HTML, so
// there is no plain-text path.
func SendEmail(to, subject, htmlBody string) error {
	host := os.Getenv("SMTP_HOST")
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT: %v", err)
	}
	from := os.Getenv("SMTP_EMAIL")

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(host, port, from, os.Getenv("SMTP_PASS"))
	if err := dialer.DialAndSend(msg); err != nil {
		Logger.Errorf("failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
