package report

import (
	"crypto/rand"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/khan-rehan/halal-invest/internal/config"
)

// Mailer delivers the daily report PDF over SMTP.
type Mailer struct {
	cfg config.SMTPConfig
	log zerolog.Logger
}

// NewMailer creates a new report mailer
func NewMailer(cfg config.SMTPConfig, log zerolog.Logger) *Mailer {
	return &Mailer{
		cfg: cfg,
		log: log.With().Str("component", "mailer").Logger(),
	}
}

// IsConfigured reports whether the mailer has credentials to send with.
func (m *Mailer) IsConfigured() bool {
	return m.cfg.Address != "" && m.cfg.Password != ""
}

// SendReport emails the rendered PDF to the configured recipient. passed and
// total describe the screening outcome and feed the subject line.
func (m *Mailer) SendReport(pdfContent []byte, passed, total int) error {
	if !m.IsConfigured() {
		return fmt.Errorf("email is not configured, set GMAIL_ADDRESS and GMAIL_APP_PASSWORD")
	}

	now := time.Now()
	subject := fmt.Sprintf("Halal S&P 500 Report - %d of %d stocks passed (%s)",
		passed, total, now.Format("Jan 2, 2006"))
	body := fmt.Sprintf(
		"Assalamu alaikum,\n\n"+
			"Your daily halal investment report is attached.\n\n"+
			"Summary: %d of %d screened stocks passed the halal compliance screens.\n"+
			"The attached PDF ranks them by composite score and includes a sample $1,000 allocation plan.\n\n"+
			"This report is generated automatically and is not financial advice.\n",
		passed, total)
	filename := fmt.Sprintf("halal_report_%s.pdf", now.Format("2006-01-02"))

	msg, err := m.buildMessage(subject, body, filename, pdfContent)
	if err != nil {
		return fmt.Errorf("failed to build report email: %w", err)
	}

	if err := m.send(m.cfg.Recipient, msg); err != nil {
		return fmt.Errorf("failed to send report email: %w", err)
	}

	m.log.Info().
		Str("recipient", m.cfg.Recipient).
		Int("passed", passed).
		Int("total", total).
		Msg("Sent report email")
	return nil
}

// buildMessage assembles a multipart/mixed MIME message with a plain text
// body and the PDF as a base64 attachment.
func (m *Mailer) buildMessage(subject, body, filename string, attachment []byte) (string, error) {
	boundary, err := generateBoundary()
	if err != nil {
		return "", err
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.cfg.Address))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", m.cfg.Recipient))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", boundary))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("Content-Transfer-Encoding: 7bit\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: application/pdf\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", filename))
	msg.WriteString("\r\n")
	msg.WriteString(encodeBase64Wrapped(attachment))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return msg.String(), nil
}

// send dials the SMTP server, upgrades with STARTTLS and submits the message.
func (m *Mailer) send(recipient, msg string) error {
	addr := net.JoinHostPort(m.cfg.Host, fmt.Sprintf("%d", m.cfg.Port))

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: m.cfg.Host}
		if err := client.StartTLS(tlsCfg); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.cfg.Address, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := client.Mail(m.cfg.Address); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

func generateBoundary() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate MIME boundary: %w", err)
	}
	return fmt.Sprintf("%x", buf), nil
}

// encodeBase64Wrapped encodes data as base64 broken into 76-character lines
// as RFC 2045 requires.
func encodeBase64Wrapped(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	var out strings.Builder
	for len(encoded) > 76 {
		out.WriteString(encoded[:76])
		out.WriteString("\r\n")
		encoded = encoded[76:]
	}
	out.WriteString(encoded)
	return out.String()
}
