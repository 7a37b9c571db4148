package mailer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	gomail "github.com/wneessen/go-mail"

	"ilmhub_backend/internals/configs"
)

type Message struct {
	To      []string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the driver from MAIL_DRIVER. smtp/sendgrid without credentials fall back to console.
func New(conf configs.AppConfig) Mailer {
	switch conf.MailDriver {
	case "smtp":
		if conf.SMTPHost != "" {
			log.Printf("[INFO] mailer: smtp %s:%d", conf.SMTPHost, conf.SMTPPort)
			return &SMTPMailer{conf: conf}
		}
	case "sendgrid":
		if conf.SendgridKey != "" {
			log.Println("[INFO] mailer: sendgrid")
			return &SendgridMailer{client: sendgrid.NewSendClient(conf.SendgridKey), conf: conf}
		}
	}
	log.Println("[INFO] mailer: console")
	return &ConsoleMailer{}
}

/* ===================== SMTP ===================== */

type SMTPMailer struct {
	conf configs.AppConfig
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return nil
	}
	em := gomail.NewMsg()
	if err := em.FromFormat(m.conf.MailFromName, m.conf.MailFrom); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := em.To(msg.To...); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	em.Subject(msg.Subject)
	em.SetBodyString(gomail.TypeTextHTML, msg.HTML)

	opts := []gomail.Option{gomail.WithPort(m.conf.SMTPPort)}
	if m.conf.SMTPUser != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.conf.SMTPUser),
			gomail.WithPassword(m.conf.SMTPPass),
		)
	}
	client, err := gomail.NewClient(m.conf.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, em)
}

/* ===================== SendGrid ===================== */

type SendgridMailer struct {
	client *sendgrid.Client
	conf   configs.AppConfig
}

func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return nil
	}
	p := sgmail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail("", to))
	}
	v3 := sgmail.NewV3Mail()
	v3.SetFrom(sgmail.NewEmail(m.conf.MailFromName, m.conf.MailFrom))
	v3.Subject = msg.Subject
	v3.AddPersonalizations(p)
	v3.AddContent(sgmail.NewContent("text/html", msg.HTML))

	res, err := m.client.SendWithContext(ctx, v3)
	if err != nil {
		return err
	}
	if res.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

/* ===================== Console ===================== */

// ConsoleMailer logs messages and keeps them for tests.
type ConsoleMailer struct {
	mu   sync.Mutex
	Sent []Message
	// Quiet disables the log output.
	Quiet bool
}

func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, msg)
	m.mu.Unlock()
	if !m.Quiet {
		log.Printf("[MAIL] to=%s subject=%q\n%s", strings.Join(msg.To, ","), msg.Subject, msg.HTML)
	}
	return nil
}

func (m *ConsoleMailer) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.Sent...)
}

// SendLogged sends and only logs failures; email never fails the caller.
// It reports whether the message went out.
func SendLogged(ctx context.Context, m Mailer, msg Message) bool {
	if m == nil {
		return false
	}
	if err := m.Send(ctx, msg); err != nil {
		log.Printf("[ERROR] send email %q to %v: %v", msg.Subject, msg.To, err)
		return false
	}
	return true
}
