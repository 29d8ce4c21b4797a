package notifier

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/gomail.v2"
)

// EmailNotifier delivers scan reports over SMTP. Credentials come from the
// environment; any missing value disables delivery instead of failing the
// scan.
type EmailNotifier struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
}

// NewFromEnv builds a notifier from EMAIL_USER, EMAIL_PASS and
// EMAIL_RECIPIENT (comma-separated), with SMTP host/port from config.
func NewFromEnv(host string, port int) *EmailNotifier {
	n := &EmailNotifier{
		Host:     host,
		Port:     port,
		Username: os.Getenv("EMAIL_USER"),
		Password: os.Getenv("EMAIL_PASS"),
	}
	n.From = n.Username
	if v := os.Getenv("EMAIL_RECIPIENT"); v != "" {
		for _, r := range strings.Split(v, ",") {
			if r = strings.TrimSpace(r); r != "" {
				n.Recipients = append(n.Recipients, r)
			}
		}
	}
	return n
}

// Configured reports whether every value needed for delivery is set.
func (n *EmailNotifier) Configured() bool {
	return n.Host != "" && n.Username != "" && n.Password != "" && len(n.Recipients) > 0
}

// Send mails the report file as an attachment.
func (n *EmailNotifier) Send(subject, body, attachmentPath string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.From)
	msg.SetHeader("To", n.Recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if attachmentPath != "" {
		msg.Attach(attachmentPath)
	}

	d := gomail.NewDialer(n.Host, n.Port, n.Username, n.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
