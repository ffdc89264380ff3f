// Package composer 依預約內容組出行事曆事件與「加入我的行事曆」連結。
// 純資料轉換，沒有任何外部呼叫。
package composer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ycchou/google-calendar-booking-api/internal/domain"
)

const (
	// googleCalendarRenderURL Google 行事曆「建立事件」範本連結
	googleCalendarRenderURL = "https://calendar.google.com/calendar/render"

	// compactUTCLayout 深層連結使用的精簡 UTC 時間格式
	compactUTCLayout = "20060102T150405Z"
)

// Compose 依預約請求與換算後的區間組出要寫入行事曆的事件
func Compose(req domain.BookingRequest, interval domain.ResolvedInterval, timezone string) domain.CalendarEventRecord {
	topic := req.Topic
	if topic == "" {
		topic = "無特定主題"
	}

	note := req.OtherTopic
	if note == "" {
		note = "無"
	}

	var description strings.Builder
	description.WriteString(fmt.Sprintf("預約人：%s\n", req.Name))
	description.WriteString(fmt.Sprintf("討論主題：%s\n", topic))
	if req.Location != "" {
		description.WriteString(fmt.Sprintf("地點：%s\n", req.Location))
	}
	description.WriteString(fmt.Sprintf("備註：%s", note))

	return domain.CalendarEventRecord{
		Title:       fmt.Sprintf("[預約] %s - %s", req.Name, topic),
		Description: description.String(),
		Location:    req.Location,
		Interval:    interval,
		Timezone:    timezone,
	}
}

// GoogleCalendarURL 產生預約人可自行加入行事曆的深層連結。
// 時間以精簡 UTC 格式表示，與寫入行事曆的事件指向同樣的絕對時間點。
func GoogleCalendarURL(record domain.CalendarEventRecord) string {
	dates := fmt.Sprintf("%s/%s",
		record.Interval.Start.UTC().Format(compactUTCLayout),
		record.Interval.End.UTC().Format(compactUTCLayout))

	query := url.Values{}
	query.Set("action", "TEMPLATE")
	query.Set("text", record.Title)
	query.Set("dates", dates)
	query.Set("details", record.Description)
	if record.Location != "" {
		query.Set("location", record.Location)
	}

	return googleCalendarRenderURL + "?" + query.Encode()
}
