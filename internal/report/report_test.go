package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khan-rehan/halal-invest/internal/config"
	"github.com/khan-rehan/halal-invest/internal/domain"
	"github.com/khan-rehan/halal-invest/internal/modules/allocation"
)

func f(v float64) *float64 { return &v }

func sampleData() Data {
	return Data{
		GeneratedAt: time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
		Budget:      1000,
		Stocks: []Stock{
			{
				Ticker: "AAPL", Company: "Apple Inc.", Sector: "Technology",
				Score: 78.5, Price: f(229.10), Tag: domain.TagFairValue,
				Signal: domain.SignalBuy, TrailingPE: f(28.4), ROE: f(0.45),
				CAGR5Y: f(0.15), CAGR10Y: f(0.21),
			},
			{
				Ticker: "JNJ", Company: "Johnson & Johnson", Sector: "Healthcare",
				Score: 64.0, Price: f(160.25), Tag: domain.TagUnderpriced,
				Signal: domain.SignalHold, TrailingPE: f(14.8),
			},
			{
				Ticker: "XOM", Company: "Exxon Mobil Corporation", Sector: "Energy",
				Score: 41.0, Price: f(110.00), Tag: domain.TagOverpriced,
				Signal: domain.SignalSell,
			},
		},
		Allocations: []allocation.Allocation{
			{Ticker: "AAPL", Company: "Apple Inc.", Price: 229.10, Dollars: 550, Shares: 2.40},
			{Ticker: "JNJ", Company: "Johnson & Johnson", Price: 160.25, Dollars: 450, Shares: 2.80},
		},
	}
}

func TestGenerate(t *testing.T) {
	gen := NewGenerator(zerolog.Nop())

	t.Run("produces a PDF document", func(t *testing.T) {
		out, err := gen.Generate(sampleData())
		require.NoError(t, err)
		require.NotEmpty(t, out)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output should start with the PDF magic")
	})

	t.Run("handles an empty result set", func(t *testing.T) {
		out, err := gen.Generate(Data{GeneratedAt: time.Now(), Budget: 1000})
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	})

	t.Run("handles missing metrics", func(t *testing.T) {
		data := Data{
			GeneratedAt: time.Now(),
			Budget:      1000,
			Stocks: []Stock{
				{Ticker: "NEW", Company: "New Listing Inc.", Score: 50.0, Tag: domain.TagFairValue, Signal: domain.SignalNA},
			},
		}
		out, err := gen.Generate(data)
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	})
}

func TestBuildMessage(t *testing.T) {
	m := NewMailer(config.SMTPConfig{
		Host:      "smtp.gmail.com",
		Port:      587,
		Address:   "sender@example.com",
		Password:  "app-password",
		Recipient: "recipient@example.com",
	}, zerolog.Nop())

	pdf := bytes.Repeat([]byte("%PDF-1.4 stub content "), 20)
	msg, err := m.buildMessage("Halal S&P 500 Report - 3 of 5 stocks passed", "Body text.\n", "report.pdf", pdf)
	require.NoError(t, err)

	assert.Contains(t, msg, "From: sender@example.com\r\n")
	assert.Contains(t, msg, "To: recipient@example.com\r\n")
	assert.Contains(t, msg, "Subject: Halal S&P 500 Report - 3 of 5 stocks passed\r\n")
	assert.Contains(t, msg, "Content-Type: multipart/mixed; boundary=")
	assert.Contains(t, msg, "Content-Type: application/pdf")
	assert.Contains(t, msg, `Content-Disposition: attachment; filename="report.pdf"`)
	assert.Contains(t, msg, "Body text.")

	// Boundary opens two parts and closes the message.
	start := strings.Index(msg, "boundary=\"") + len("boundary=\"")
	end := strings.Index(msg[start:], "\"")
	require.Greater(t, end, 0)
	boundary := msg[start : start+end]
	assert.Equal(t, 2, strings.Count(msg, "--"+boundary+"\r\n"))
	assert.Contains(t, msg, "--"+boundary+"--\r\n")

	// Attachment lines stay within the RFC 2045 limit.
	inAttachment := false
	for _, line := range strings.Split(msg, "\r\n") {
		if strings.Contains(line, "base64") {
			inAttachment = true
			continue
		}
		if inAttachment && strings.HasPrefix(line, "--") {
			break
		}
		if inAttachment && line != "" {
			assert.LessOrEqual(t, len(line), 76)
		}
	}
}

func TestMailerIsConfigured(t *testing.T) {
	assert.False(t, NewMailer(config.SMTPConfig{}, zerolog.Nop()).IsConfigured())
	assert.False(t, NewMailer(config.SMTPConfig{Address: "a@b.c"}, zerolog.Nop()).IsConfigured())
	assert.True(t, NewMailer(config.SMTPConfig{Address: "a@b.c", Password: "pw"}, zerolog.Nop()).IsConfigured())
}

func TestSendReportUnconfigured(t *testing.T) {
	m := NewMailer(config.SMTPConfig{}, zerolog.Nop())
	err := m.SendReport([]byte("%PDF-"), 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestEncodeBase64Wrapped(t *testing.T) {
	out := encodeBase64Wrapped(bytes.Repeat([]byte{0xAB}, 200))
	lines := strings.Split(out, "\r\n")
	require.Greater(t, len(lines), 1)
	for i, line := range lines {
		if i < len(lines)-1 {
			assert.Len(t, line, 76)
		} else {
			assert.LessOrEqual(t, len(line), 76)
		}
	}
}
