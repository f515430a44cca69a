package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/Tau-rai/fintrekapi/internal/config"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendSubscriptionReminder sends a reminder email for an unpaid subscription
func (s *Sender) SendSubscriptionReminder(to, username, subscription string, amount decimal.Decimal, dueDate time.Time, isOverdue bool) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if isOverdue {
		e.Subject = fmt.Sprintf("Overdue Subscription: %s", subscription)
	} else {
		e.Subject = fmt.Sprintf("Upcoming Subscription Payment: %s", subscription)
	}

	body := fmt.Sprintf("Dear %s,\n\n", username)
	if isOverdue {
		body += fmt.Sprintf(
			"Your %s subscription payment of %s was due on %s and is still unpaid.\n"+
				"Please settle it or mark it as paid in the app.\n",
			subscription, amount.StringFixed(2), dueDate.Format("2006-01-02"),
		)
	} else {
		body += fmt.Sprintf(
			"This is a reminder that your %s subscription payment of %s is due on %s.\n",
			subscription, amount.StringFixed(2), dueDate.Format("2006-01-02"),
		)
	}
	body += "\nBest regards,\nFinTrek"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
