package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/username/allrounder/backend/src/config"
	"github.com/username/allrounder/backend/src/logger"
)

// NewNotificationService picks a delivery backend from configuration.
// Incomplete configuration falls back to the mock, which only logs; the
// automation pass works identically either way.
func NewNotificationService() NotificationService {
	if config.Cfg == nil {
		logger.L.Error("Configuration (config.Cfg) is nil. Notification service will default to mock.")
		return &MockNotificationService{}
	}

	provider := strings.ToLower(config.Cfg.EmailServiceProvider)
	logger.L.Info("Initializing notification service", "provider", provider)

	switch provider {
	case "mailgun":
		if config.Cfg.MailgunDomain == "" || config.Cfg.MailgunPrivateAPIKey == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("Mailgun configuration incomplete (Domain, API Key, or SenderEmail missing). Falling back to MockNotificationService.")
			return &MockNotificationService{}
		}
		mg := mailgun.NewMailgun(config.Cfg.MailgunDomain, config.Cfg.MailgunPrivateAPIKey)
		logger.L.Info("Mailgun client initialized", "domain", config.Cfg.MailgunDomain)
		return &MailgunNotificationService{
			mg:          mg,
			senderEmail: config.Cfg.SenderEmail,
			senderName:  config.Cfg.SenderName,
		}
	case "smtp":
		if config.Cfg.SMTPServer == "" || config.Cfg.SMTPUser == "" || config.Cfg.SMTPPassword == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("SMTP configuration incomplete. Falling back to MockNotificationService.")
			return &MockNotificationService{}
		}
		return &SMTPNotificationService{
			SMTPServer:   config.Cfg.SMTPServer,
			SMTPPort:     config.Cfg.SMTPPort,
			SMTPUser:     config.Cfg.SMTPUser,
			SMTPPassword: config.Cfg.SMTPPassword,
			SenderEmail:  config.Cfg.SenderEmail,
		}
	default:
		logger.L.Info("Defaulting to MockNotificationService.")
		return &MockNotificationService{}
	}
}

func summarySubject(date string) string {
	return fmt.Sprintf("자산 자동화 요약 (%s)", date)
}

func summaryBody(name, date string, synthesized int) string {
	return fmt.Sprintf(`%s님, 안녕하세요.

%s 자동화 프로세스 실행 결과, %d건의 자산 변동이 자동 기록되었습니다.
(예적금 이자 및 투자 평가액 반영 내역은 가계부에서 확인할 수 있습니다.)

Allrounder`, name, date, synthesized)
}

type SMTPNotificationService struct {
	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
}

func (s *SMTPNotificationService) SendAutomationSummary(toEmail, name, date string, synthesized int) error {
	header := make(map[string]string)
	header["From"] = s.SenderEmail
	header["To"] = toEmail
	header["Subject"] = summarySubject(date)
	header["MIME-version"] = "1.0"
	header["Content-Type"] = "text/plain; charset=\"UTF-8\""
	message := ""
	for k, v := range header {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + summaryBody(name, date, synthesized)

	auth := smtp.PlainAuth("", s.SMTPUser, s.SMTPPassword, s.SMTPServer)
	addr := fmt.Sprintf("%s:%d", s.SMTPServer, s.SMTPPort)
	if err := smtp.SendMail(addr, auth, s.SenderEmail, []string{toEmail}, []byte(message)); err != nil {
		logger.L.Error("Failed to send automation summary via SMTP", "error", err, "to", toEmail)
		return fmt.Errorf("failed to send automation summary via SMTP: %w", err)
	}
	logger.L.Info("Automation summary sent via SMTP", "to", toEmail)
	return nil
}

type MailgunNotificationService struct {
	mg          mailgun.Mailgun
	senderEmail string
	senderName  string
}

func (s *MailgunNotificationService) SendAutomationSummary(toEmail, name, date string, synthesized int) error {
	from := fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)

	message := s.mg.NewMessage(from, summarySubject(date), summaryBody(name, date, synthesized), toEmail)
	message.AddTag("automation-summary")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	resp, id, err := s.mg.Send(ctx, message)
	if err != nil {
		logger.L.Error("Failed to send automation summary via Mailgun", "error", err, "to", toEmail, "mailgunResp", resp, "mailgunId", id)
		return fmt.Errorf("mailgun send failed: %w. Response: %s", err, resp)
	}
	logger.L.Info("Automation summary sent via Mailgun", "to", toEmail, "id", id)
	return nil
}

type MockNotificationService struct{}

func (m *MockNotificationService) SendAutomationSummary(toEmail, name, date string, synthesized int) error {
	logger.L.Info("MockNotificationService: Would send automation summary.",
		"to", toEmail, "name", name, "date", date, "synthesized", synthesized)
	return nil
}
