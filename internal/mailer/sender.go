package mailer

import (
	"fmt"
	"strings"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/lledoind/aerotools/config"
)

// QuoteRequest is the rendered content of a quote request notification.
type QuoteRequest struct {
	Company string
	Name    string
	Email   string
	Phone   string
	Message string
	Lines   []QuoteRequestLine
}

type QuoteRequestLine struct {
	ID           string
	Name         string
	Category     string
	Quantity     int
	PriceDisplay string
}

// Sender delivers quote request notifications to the sales inbox. Delivery
// is fire-and-forget on a small worker pool so a slow SMTP server never
// blocks the submission path.
type Sender struct {
	cfg  config.MailConfig
	pool *ants.Pool
	send func(m *gomail.Message) error
}

func NewSender(cfg config.MailConfig) *Sender {
	pool, err := ants.NewPool(4, ants.WithNonblocking(true))
	if err != nil {
		zap.L().Error("failed to create mail worker pool", zap.Error(err))
	}
	s := &Sender{cfg: cfg, pool: pool}
	s.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.SmtpHost, cfg.SmtpPort, cfg.Username, cfg.Password)
		return d.DialAndSend(m)
	}
	return s
}

// SendQuoteRequest queues the notification. Returns immediately; delivery
// errors are logged, the submission record stays authoritative. done, when
// non-nil, is invoked from the worker with the delivery outcome; with mail
// disabled nothing is delivered and done is never called.
func (s *Sender) SendQuoteRequest(req QuoteRequest, done func(delivered bool)) {
	if !s.cfg.Enabled {
		zap.L().Debug("mail disabled, skipping quote notification",
			zap.String("email", req.Email))
		return
	}
	task := func() { s.deliver(req, done) }
	if s.pool != nil {
		if err := s.pool.Submit(task); err != nil {
			zap.L().Warn("mail pool saturated, delivering inline", zap.Error(err))
			go task()
		}
		return
	}
	go task()
}

func (s *Sender) deliver(req QuoteRequest, done func(delivered bool)) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error("mail delivery panic:", err)
		}
	}()

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.NotifyTo)
	if req.Email != "" {
		m.SetHeader("Reply-To", req.Email)
	}
	m.SetHeader("Subject", fmt.Sprintf("Demande de devis - %s (%d articles)",
		req.Company, len(req.Lines)))
	m.SetBody("text/plain", renderBody(req))

	err := s.send(m)
	if done != nil {
		done(err == nil)
	}
	if err != nil {
		zap.L().Error("failed to send quote notification",
			zap.String("email", req.Email), zap.Error(err))
		return
	}
	zap.L().Info("quote notification sent",
		zap.String("company", req.Company), zap.Int("lines", len(req.Lines)))
}

func renderBody(req QuoteRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Société : %s\n", req.Company)
	fmt.Fprintf(&b, "Contact : %s\n", req.Name)
	fmt.Fprintf(&b, "Email : %s\n", req.Email)
	if req.Phone != "" {
		fmt.Fprintf(&b, "Téléphone : %s\n", req.Phone)
	}
	if req.Message != "" {
		fmt.Fprintf(&b, "\nMessage :\n%s\n", req.Message)
	}
	b.WriteString("\nArticles demandés :\n")
	for _, line := range req.Lines {
		fmt.Fprintf(&b, "  - [%s] %s x%d (%s) %s\n",
			line.ID, line.Name, line.Quantity, line.Category, line.PriceDisplay)
	}
	return b.String()
}

// Release drains the worker pool.
func (s *Sender) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}
