package domain

import "time"

// BookingRequest 預約表單送出的原始請求
type BookingRequest struct {
	Name       string `json:"name"`
	Date       string `json:"date"`     // YYYY-MM-DD
	Time       string `json:"time"`     // HH:MM
	Duration   string `json:"duration"` // 時長（小時，字串形式，例如 "0.5"、"1"）
	Topic      string `json:"topic"`
	OtherTopic string `json:"otherTopic,omitempty"`
	Location   string `json:"location,omitempty"`
}

// ResolvedInterval 換算後的絕對時間區間（固定以台北時區解讀）
type ResolvedInterval struct {
	Start time.Time
	End   time.Time
}

// BusyEvent 行事曆上既有的事件（衝突判斷用）
type BusyEvent struct {
	ID          string
	Title       string
	Start       time.Time
	End         time.Time
	IsAllDay    bool
	Transparent bool // true 表示該事件不佔用時段（例如純提醒）
}

// CalendarEventRecord 要寫入行事曆的事件內容
type CalendarEventRecord struct {
	Title       string
	Description string
	Location    string
	Interval    ResolvedInterval
	Timezone    string
}

// RejectReason 預約被拒絕的類別
type RejectReason string

const (
	RejectNone                 RejectReason = ""
	RejectInvalidRequest       RejectReason = "invalid-request"
	RejectOutsideBusinessHours RejectReason = "outside-business-hours"
	RejectTopicNotPermitted    RejectReason = "topic-not-permitted-at-time"
	RejectScheduleConflict     RejectReason = "schedule-conflict"
)

// Verdict 可用性規則的判斷結果
type Verdict struct {
	Accepted bool
	Reason   RejectReason
	Message  string
}

// Accept 回傳「接受」的判斷結果
func Accept() Verdict {
	return Verdict{Accepted: true}
}

// Reject 回傳「拒絕」的判斷結果
func Reject(reason RejectReason, message string) Verdict {
	return Verdict{Reason: reason, Message: message}
}

// BookingResult 預約管線的最終結果
type BookingResult struct {
	Success           bool
	Message           string
	GoogleCalendarURL string
	Reason            RejectReason // Success 為 false 時的拒絕類別
}
