package infra

import (
	"fmt"
	"net/smtp"

	"digitask/internal/dto"

	"github.com/jordan-wright/email"
)

// Mailer sends stock alert mail through an SMTP relay.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	to       string
}

// NewMailer builds a Mailer from SMTP settings. The relay is not contacted
// until the first send.
func NewMailer(host string, port int, username, password, to string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		to:       to,
	}
}

// Configured reports whether an SMTP relay has been set up. When false,
// alert jobs are logged and dropped instead of mailed.
func (m *Mailer) Configured() bool {
	return m.host != "" && m.to != ""
}

// SendStockAlert mails a low-stock warning for one warehouse/product pair.
func (m *Mailer) SendStockAlert(alert dto.StockAlertResponse) error {
	e := email.NewEmail()
	e.From = fmt.Sprintf("Digitask <%s>", m.username)
	e.To = []string{m.to}
	e.Subject = fmt.Sprintf("Low stock: %s at %s", alert.ProductName, alert.WarehouseName)
	e.Text = []byte(fmt.Sprintf(
		"Product %s at warehouse %s has dropped to %s (minimum %s).\n\nCheck the inventory dashboard for details.",
		alert.ProductName, alert.WarehouseName, alert.Quantity.String(), alert.MinQuantity.String(),
	))

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return e.Send(addr, auth)
}
