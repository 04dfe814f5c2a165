package notify

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"github.com/tavernshift/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ErrMalformed 表示消息本身有问题，重新投递也不会成功
var ErrMalformed = errors.New("无法处理的通知")

// Sender 是 *mail.Client 的子集
type Sender interface {
	DialAndSend(messages ...*mail.Msg) error
}

type Mailer struct {
	sender        Sender
	from          string
	subjectPrefix string
}

func NewMailer(sender Sender, from string) *Mailer {
	return &Mailer{
		sender:        sender,
		from:          from,
		subjectPrefix: "TavernShift",
	}
}

// Build 根据通知类型选择邮件模板
func (m *Mailer) Build(notification domain.Notification) (*mail.Msg, error) {
	var name string
	switch notification.Type {
	case domain.NotificationTypeSchedulePublished:
		name = "schedule_published.html"
	case domain.NotificationTypeInvite:
		name = "invite.html"
	default:
		return nil, fmt.Errorf("%w：不支持的通知类型 %q", ErrMalformed, notification.Type)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人：%w", err)
	}
	if err := msg.To(notification.Target); err != nil {
		return nil, fmt.Errorf("%w：无法设置邮件收件人：%v", ErrMalformed, err)
	}
	msg.Subject(fmt.Sprintf("%s - %s", m.subjectPrefix, notification.Title))

	if err := msg.SetBodyHTMLTemplate(templates.Lookup(name), notification); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文：%w", err)
	}

	return msg, nil
}

// Process 处理队列中的一条消息。返回 ErrMalformed 时消息应当被丢弃，其他错误可以重新入队
func (m *Mailer) Process(body []byte) error {
	var notification domain.Notification
	if err := json.Unmarshal(body, &notification); err != nil {
		return fmt.Errorf("%w：%v", ErrMalformed, err)
	}

	msg, err := m.Build(notification)
	if err != nil {
		return err
	}

	return m.sender.DialAndSend(msg)
}
