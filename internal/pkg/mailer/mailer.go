package mailer

import (
	"fmt"
	"net/http"

	"cube_market/internal/pkg/config"
	"cube_market/pkg/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Message 一封待发送的邮件
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

// Mailer 邮件发送接口
type Mailer interface {
	Send(msg *Message) error
}

// NewMailer 根据配置选择实现：开发环境打印到日志，生产走 SendGrid
func NewMailer() Mailer {
	cfg := config.GlobalConfig.Mail
	if cfg.UseConsole || cfg.SendgridKey == "" {
		return &consoleMailer{}
	}
	return &sendgridMailer{
		key:  cfg.SendgridKey,
		from: sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
	}
}

// sendgridMailer SendGrid 实现
type sendgridMailer struct {
	key  string
	from *sgmail.Email
}

func (m *sendgridMailer) Send(msg *Message) error {
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	content := sgmail.NewSingleEmail(m.from, msg.Subject, to, msg.Text, msg.HTML)

	client := sendgrid.NewSendClient(m.key)
	resp, err := client.Send(content)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// consoleMailer 开发环境实现：邮件内容打印到日志
type consoleMailer struct{}

func (m *consoleMailer) Send(msg *Message) error {
	logger.Log.Info("mail (console)",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}
