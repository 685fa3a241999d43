// Package notify emails a summary of high-scoring listings after a run.
package notify

import (
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/antique-scout/sale-scout/internal/config"
	"github.com/antique-scout/sale-scout/internal/model"
)

// Sender delivers a prepared message. The default implementation wraps
// net/smtp; tests substitute their own.
type Sender interface {
	Send(from string, to []string, msg []byte) error
}

type smtpSender struct {
	cfg config.EmailConfig
}

func (s smtpSender) Send(from string, to []string, msg []byte) error {
	addr := s.cfg.SMTPHost + ":" + strconv.Itoa(s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, from, to, msg)
}

// Notifier sends a digest of listings scoring at or above the configured
// minimum.
type Notifier struct {
	cfg    config.EmailConfig
	sender Sender
}

// New creates a Notifier. sender may be nil to use SMTP from cfg.
func New(cfg config.EmailConfig, sender Sender) *Notifier {
	if sender == nil {
		sender = smtpSender{cfg: cfg}
	}
	return &Notifier{cfg: cfg, sender: sender}
}

// Notify emails the listings scoring >= MinScore. Nothing is sent when no
// listing qualifies or no recipients are configured. A delivery failure is
// returned to the caller; the caller decides whether it is fatal.
func (n *Notifier) Notify(location string, listings []model.Listing) error {
	if len(n.cfg.To) == 0 {
		zap.L().Debug("notify: no recipients configured")
		return nil
	}

	picks := FilterByScore(listings, n.cfg.MinScore)
	if len(picks) == 0 {
		zap.L().Info("notify: no listings met the score threshold",
			zap.Int("min_score", n.cfg.MinScore))
		return nil
	}

	msg := buildMessage(n.cfg.From, n.cfg.To, location, picks)
	if err := n.sender.Send(n.cfg.From, n.cfg.To, msg); err != nil {
		return eris.Wrap(err, "notify: send email")
	}

	zap.L().Info("notify: summary sent",
		zap.Int("listings", len(picks)),
		zap.Strings("to", n.cfg.To),
	)
	return nil
}

// FilterByScore returns the listings with a score at or above minScore.
// Unscored listings never qualify.
func FilterByScore(listings []model.Listing, minScore int) []model.Listing {
	var picks []model.Listing
	for _, l := range listings {
		if l.Score != nil && l.Score.Value >= minScore {
			picks = append(picks, l)
		}
	}
	return picks
}

func buildMessage(from string, to []string, location string, picks []model.Listing) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %d estate sale(s) worth a look near %s\r\n", len(picks), location)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")

	for i, l := range picks {
		if i > 0 {
			b.WriteString("\r\n" + strings.Repeat("-", 40) + "\r\n")
		}
		fmt.Fprintf(&b, "%s (%d/5)\r\n", l.Title, l.Score.Value)
		if l.Address != "" {
			fmt.Fprintf(&b, "Where: %s\r\n", l.Address)
		}
		if l.DateRange != "" {
			fmt.Fprintf(&b, "When: %s\r\n", l.DateRange)
		}
		if len(l.Score.Categories) > 0 {
			fmt.Fprintf(&b, "Look for: %s\r\n", strings.Join(l.Score.Categories, ", "))
		}
		if l.Score.Summary != "" {
			fmt.Fprintf(&b, "%s\r\n", l.Score.Summary)
		}
		fmt.Fprintf(&b, "%s\r\n", l.URL)
	}

	return []byte(b.String())
}
