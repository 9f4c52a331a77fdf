// Package mailer sends plain-text mail over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"getunitycodes/internal/model"

	"github.com/shopspring/decimal"
	"github.com/wneessen/go-mail"
)

var ErrMissingField = errors.New("missing to, subject or text")

type Message struct {
	To      string
	Subject string
	Text    string
}

// Validate 檢查三個欄位皆非空白
func (m Message) Validate() error {
	if strings.TrimSpace(m.To) == "" || strings.TrimSpace(m.Subject) == "" || strings.TrimSpace(m.Text) == "" {
		return ErrMissingField
	}
	return nil
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

var newSender = func(cfg Config) (sender, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	return mail.NewClient(cfg.Host, opts...)
}

type SMTPMailer struct {
	cfg    Config
	client sender
}

// NewSMTPMailer 建立 SMTP client，Port 為 0 時使用 587
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("NewSMTPMailer: host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	c, err := newSender(cfg)
	if err != nil {
		return nil, fmt.Errorf("NewSMTPMailer: %w", err)
	}
	return &SMTPMailer{cfg: cfg, client: c}, nil
}

func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("Send: from: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("Send: to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Text)
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("Send: %w", err)
	}
	return nil
}

// LogMailer 只寫 log，用於未設定 MAIL_HOST 的開發環境
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	log.Printf("mail to=%s subject=%q (%d bytes)", m.To, m.Subject, len(m.Text))
	return nil
}

type FakeMailer struct {
	SendFn func(ctx context.Context, m Message) error
	Sent   []Message
}

func (f *FakeMailer) Send(ctx context.Context, m Message) error {
	f.Sent = append(f.Sent, m)
	if f.SendFn != nil {
		return f.SendFn(ctx, m)
	}
	return nil
}

// VerifyMessage 是註冊後寄出的驗證信
func VerifyMessage(u model.User, token string) Message {
	return Message{
		To:      u.Email,
		Subject: "Verify your GetUnityCodes account",
		Text: fmt.Sprintf("Hi %s,\n\nUse this code to verify your account within 24 hours:\n\n%s\n",
			u.Name, token),
	}
}

// InvoiceMessage lists every entry with its unit price and the order total.
func InvoiceMessage(name, email string, entries []model.ListEntry, total decimal.Decimal, paymentMethod string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order. Payment method: %s\n\n", name, paymentMethod)
	for _, e := range entries {
		line := e.Game.Name
		if e.Platform != "" {
			line += " / " + e.Platform
		}
		if e.Version != "" {
			line += " / " + e.Version
		}
		fmt.Fprintf(&b, "- %s: $%s\n", line, e.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: $%s\n", total.StringFixed(2))
	return Message{To: email, Subject: "Your GetUnityCodes invoice", Text: b.String()}
}
