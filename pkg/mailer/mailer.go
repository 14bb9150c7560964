package mailer

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
)

// Mailer sends plain-text fallback notifications to a single receiver.
type Mailer struct {
	server   string
	port     int
	sender   string
	password string
	receiver string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(server string, port int, sender, password, receiver string) *Mailer {
	return &Mailer{
		server:   server,
		port:     port,
		sender:   sender,
		password: password,
		receiver: receiver,
		send:     smtp.SendMail,
	}
}

// Send delivers subject/body. smtp.SendMail upgrades to STARTTLS when the
// server offers it.
func (m *Mailer) Send(subject, body string) error {
	msg, err := Compose(m.sender, m.receiver, subject, body, time.Now())
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.server, strconv.Itoa(m.port))
	auth := smtp.PlainAuth("", m.sender, m.password, m.server)
	if err := m.send(addr, auth, m.sender, []string{m.receiver}, msg); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}
	return nil
}

// Compose renders a single-part text/plain message.
func Compose(from, to, subject, body string, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail writer: %w", err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
