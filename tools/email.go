package tools

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// EmailClient envia e-mail via SMTP simples (auth PLAIN).
type EmailClient struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// NewEmailClientFromEnv monta o cliente a partir das ENVs SMTP_*.
// Host vazio devolve nil (canal desabilitado).
func NewEmailClientFromEnv() *EmailClient {
	host := strings.TrimSpace(os.Getenv("SMTP_HOST"))
	if host == "" {
		return nil
	}
	port := strings.TrimSpace(os.Getenv("SMTP_PORT"))
	if port == "" {
		port = "587"
	}
	from := strings.TrimSpace(os.Getenv("SMTP_FROM"))
	if from == "" {
		from = "dmed@localhost"
	}
	return &EmailClient{
		Host: host,
		Port: port,
		User: strings.TrimSpace(os.Getenv("SMTP_USER")),
		Pass: os.Getenv("SMTP_PASS"),
		From: from,
	}
}

// SendText envia um e-mail texto puro.
func (e *EmailClient) SendText(to string, subject string, body string) error {
	if e == nil || e.Host == "" {
		return fmt.Errorf("email client not configured")
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("email recipient is empty")
	}

	msg := strings.Builder{}
	msg.WriteString("From: " + e.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := e.Host + ":" + e.Port
	var auth smtp.Auth
	if e.User != "" {
		auth = smtp.PlainAuth("", e.User, e.Pass, e.Host)
	}
	return smtp.SendMail(addr, auth, e.From, []string{to}, []byte(msg.String()))
}
