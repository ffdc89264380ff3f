package gateway

import (
	"context"
	"errors"
	"mime"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ycchou/google-calendar-booking-api/internal/domain"
)

func testRecordAndRequest(t *testing.T) (domain.CalendarEventRecord, domain.BookingRequest) {
	t.Helper()
	start := time.Date(2024, 6, 10, 14, 0, 0, 0, taipei(t))
	record := domain.CalendarEventRecord{
		Title:    "[預約] 王小明 - 私誼敘舊",
		Interval: domain.ResolvedInterval{Start: start, End: start.Add(time.Hour)},
		Timezone: "Asia/Taipei",
	}
	req := domain.BookingRequest{
		Name:     "王小明",
		Date:     "2024-06-10",
		Time:     "14:00",
		Duration: "1",
		Topic:    "私誼敘舊",
	}
	return record, req
}

// --- SendBookingNotification 測試 ---

func TestSendBookingNotification_Success(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	notifier := NewEmailNotifier("mail.example.com", "587", "bot@example.com", "owner@example.com")
	notifier.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	record, req := testRecordAndRequest(t)
	err := notifier.SendBookingNotification(context.Background(), record, req)
	require.NoError(t, err)

	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "bot@example.com", gotFrom)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg),
		"Subject: "+mime.QEncoding.Encode("utf-8", "[預約通知] 王小明 - 2024-06-10 14:00"))
	assert.Contains(t, string(gotMsg), "Content-Type: text/html")
	assert.Contains(t, string(gotMsg), "預約人：王小明")
}

func TestSendBookingNotification_SendFailure(t *testing.T) {
	notifier := NewEmailNotifier("mail.example.com", "587", "bot@example.com", "owner@example.com")
	notifier.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	record, req := testRecordAndRequest(t)
	err := notifier.SendBookingNotification(context.Background(), record, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "通知信寄送失敗")
}

// --- buildMessage 測試 ---

func TestBuildMessage_EncodesCJKSubject(t *testing.T) {
	msg := buildMessage("bot@example.com", "owner@example.com", "[預約通知] 王小明", "<p>內文</p>")

	// 中文主旨不得以裸 UTF-8 進標頭，須包成 encoded-word
	assert.NotContains(t, msg, "Subject: [預約通知]")
	assert.Contains(t, msg, "Subject: =?utf-8?q?")

	// 標頭解碼後應還原成原本的主旨
	var subjectHeader string
	for _, line := range strings.Split(msg, "\r\n") {
		if strings.HasPrefix(line, "Subject: ") {
			subjectHeader = strings.TrimPrefix(line, "Subject: ")
			break
		}
	}
	require.NotEmpty(t, subjectHeader)

	decoded, err := new(mime.WordDecoder).DecodeHeader(subjectHeader)
	require.NoError(t, err)
	assert.Equal(t, "[預約通知] 王小明", decoded)
}

func TestBuildMessage_PlainASCIISubjectUntouched(t *testing.T) {
	msg := buildMessage("bot@example.com", "owner@example.com", "Booking notice", "<p>hi</p>")
	assert.Contains(t, msg, "Subject: Booking notice\r\n")
}

// --- buildNotificationBody 測試 ---

func TestBuildNotificationBody_OptionalFields(t *testing.T) {
	record, req := testRecordAndRequest(t)

	body := buildNotificationBody(record, req)
	assert.Contains(t, body, "2024-06-10 14:00 ~ 15:00")
	assert.NotContains(t, body, "地點")
	assert.NotContains(t, body, "備註")

	req.Location = "台北 101"
	req.OtherTopic = "帶簡報"
	body = buildNotificationBody(record, req)
	assert.Contains(t, body, "地點：台北 101")
	assert.Contains(t, body, "備註：帶簡報")
}
