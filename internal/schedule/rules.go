package schedule

import (
	"time"

	"github.com/ycchou/google-calendar-booking-api/internal/domain"
)

// BusinessTopic 商務類主題，受較嚴格的時段限制
const BusinessTopic = "商務會談"

// Rule 單一可用性規則。規則依序比對，第一個命中者決定拒絕結果；
// 全部未命中則接受預約。
type Rule struct {
	Reason  domain.RejectReason
	Message string
	Matches func(start time.Time, topic string) bool
}

// DefaultRules 部署預設的規則組
func DefaultRules() []Rule {
	return []Rule{
		{
			Reason:  domain.RejectOutsideBusinessHours,
			Message: "⚠️ 平日僅開放中午 12:00 以後的時段，請重新選擇時間。",
			Matches: func(start time.Time, _ string) bool {
				return isWeekday(start.Weekday()) && start.Hour() < 12
			},
		},
		{
			Reason:  domain.RejectTopicNotPermitted,
			Message: "⚠️ 平日晚間 10 點後不安排商務會談，請選擇其他時段。",
			Matches: func(start time.Time, topic string) bool {
				return isWeekday(start.Weekday()) && topic == BusinessTopic && start.Hour() >= 22
			},
		},
		{
			Reason:  domain.RejectTopicNotPermitted,
			Message: "⚠️ 週末不安排商務會談，請改約平日時段。",
			Matches: func(start time.Time, topic string) bool {
				return !isWeekday(start.Weekday()) && topic == BusinessTopic
			},
		},
	}
}

// Evaluate 依序套用規則。小時與星期的判斷以區間起點的當地時間為準。
func Evaluate(rules []Rule, interval domain.ResolvedInterval, topic string) domain.Verdict {
	for _, rule := range rules {
		if rule.Matches(interval.Start, topic) {
			return domain.Reject(rule.Reason, rule.Message)
		}
	}
	return domain.Accept()
}

// isWeekday 週一至週五為平日
func isWeekday(d time.Weekday) bool {
	return d != time.Saturday && d != time.Sunday
}
