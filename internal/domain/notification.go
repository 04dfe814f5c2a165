package domain

const (
	NotificationTypeSchedulePublished = "schedule_published"
	NotificationTypeInvite            = "invite"
)

// Notification 是投递到消息队列中的一条通知
type Notification struct {
	Type   string         `json:"type"`
	Target string         `json:"target"` // 收件人邮箱
	Title  string         `json:"title"`
	Body   string         `json:"body"`
	Data   map[string]any `json:"data"`
}
