package gateway

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/ycchou/google-calendar-booking-api/internal/domain"
)

// EmailNotifier 以 SMTP 寄送預約通知給行事曆擁有者。
// 每筆預約最多寄一次，結果由呼叫端決定如何處理。
type EmailNotifier struct {
	addr string
	from string
	to   string

	// sendMail 寄信函式，測試時以替身攔截
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailNotifier 建立通知寄送器
func NewEmailNotifier(host, port, from, to string) *EmailNotifier {
	return &EmailNotifier{
		addr:     fmt.Sprintf("%s:%s", strings.TrimSpace(host), strings.TrimSpace(port)),
		from:     strings.TrimSpace(from),
		to:       strings.TrimSpace(to),
		sendMail: smtp.SendMail,
	}
}

// SendBookingNotification 寄出一封預約摘要信
func (n *EmailNotifier) SendBookingNotification(_ context.Context, record domain.CalendarEventRecord, req domain.BookingRequest) error {
	subject := fmt.Sprintf("[預約通知] %s - %s %s", req.Name, req.Date, req.Time)
	body := buildNotificationBody(record, req)
	msg := buildMessage(n.from, n.to, subject, body)

	if err := n.sendMail(n.addr, nil, n.from, []string{n.to}, []byte(msg)); err != nil {
		return fmt.Errorf("通知信寄送失敗：%v", err)
	}
	return nil
}

// buildNotificationBody 組出通知信的 HTML 內文
func buildNotificationBody(record domain.CalendarEventRecord, req domain.BookingRequest) string {
	var body strings.Builder
	body.WriteString("<h3>收到新的預約</h3>")
	body.WriteString(fmt.Sprintf("<p>預約人：%s</p>", req.Name))
	body.WriteString(fmt.Sprintf("<p>時間：%s ~ %s</p>",
		record.Interval.Start.Format("2006-01-02 15:04"),
		record.Interval.End.Format("15:04")))
	body.WriteString(fmt.Sprintf("<p>主題：%s</p>", req.Topic))
	if req.Location != "" {
		body.WriteString(fmt.Sprintf("<p>地點：%s</p>", req.Location))
	}
	if req.OtherTopic != "" {
		body.WriteString(fmt.Sprintf("<p>備註：%s</p>", req.OtherTopic))
	}
	body.WriteString("<p>事件已寫入 Google 行事曆。</p>")
	return body.String()
}

// buildMessage 組出最簡 RFC 5322 信件，足以應付一般 SMTP relay。
// 主旨含中文，需以 RFC 2047 encoded-word 包裝，避免嚴格的 relay 拒收或變成亂碼。
func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		mime.QEncoding.Encode("utf-8", subject),
		body,
	)
}
