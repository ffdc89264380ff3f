package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/ycchou/google-calendar-booking-api/internal/domain"
)

// calendarAPI 將 calendar/v3 的原始呼叫抽成介面，測試時以 mock 替換
type calendarAPI interface {
	ListEvents(ctx context.Context, calendarID, timeMin, timeMax string) ([]*calendar.Event, error)
	InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error)
}

// googleCalendarAPI 實際呼叫 Google Calendar API
type googleCalendarAPI struct {
	service *calendar.Service
}

func (a *googleCalendarAPI) ListEvents(ctx context.Context, calendarID, timeMin, timeMax string) ([]*calendar.Event, error) {
	events, err := a.service.Events.List(calendarID).
		Context(ctx).
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(50).
		Do()
	if err != nil {
		return nil, err
	}
	return events.Items, nil
}

func (a *googleCalendarAPI) InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	return a.service.Events.Insert(calendarID, event).Context(ctx).Do()
}

// GoogleCalendarGateway 透過服務帳戶操作行事曆的讀寫
type GoogleCalendarGateway struct {
	api        calendarAPI
	calendarID string
	timezone   *time.Location
}

// NewGoogleCalendarGateway 以服務帳戶（client email + private key）建立行事曆閘道
func NewGoogleCalendarGateway(ctx context.Context, clientEmail, privateKey, calendarID string, timezone *time.Location) (*GoogleCalendarGateway, error) {
	conf := &jwt.Config{
		Email:      clientEmail,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{calendar.CalendarScope},
		TokenURL:   google.JWTTokenURL,
	}

	service, err := calendar.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("google Calendar API 服務建立失敗：%v", err)
	}

	return &GoogleCalendarGateway{
		api:        &googleCalendarAPI{service: service},
		calendarID: calendarID,
		timezone:   timezone,
	}, nil
}

// newGatewayWithAPI 測試用：注入 calendarAPI 的替身
func newGatewayWithAPI(api calendarAPI, calendarID string, timezone *time.Location) *GoogleCalendarGateway {
	return &GoogleCalendarGateway{api: api, calendarID: calendarID, timezone: timezone}
}

// ListBusyEvents 取得與候選區間重疊、且會佔用時段的既有事件。
// transparency 為 transparent 的事件（純提醒類）不列入。
func (g *GoogleCalendarGateway) ListBusyEvents(ctx context.Context, interval domain.ResolvedInterval) ([]domain.BusyEvent, error) {
	items, err := g.api.ListEvents(ctx, g.calendarID,
		interval.Start.Format(time.RFC3339),
		interval.End.Format(time.RFC3339))
	if err != nil {
		return nil, &domain.UpstreamError{Op: "讀取 Google 行事曆", Err: errors.New(apiErrorText(err))}
	}

	busy := make([]domain.BusyEvent, 0, len(items))
	for _, item := range items {
		event, err := g.convertEvent(item)
		if err != nil {
			log.Printf("警告：事件轉換失敗，略過：%v", err)
			continue
		}
		if event.Transparent {
			continue
		}
		if !overlaps(event.Start, event.End, interval.Start, interval.End) {
			continue
		}
		busy = append(busy, event)
	}

	return busy, nil
}

// InsertEvent 將預約事件寫入行事曆，回傳事件的 htmlLink
func (g *GoogleCalendarGateway) InsertEvent(ctx context.Context, record domain.CalendarEventRecord) (string, error) {
	event := &calendar.Event{
		Summary:     record.Title,
		Description: record.Description,
		Location:    record.Location,
		Start: &calendar.EventDateTime{
			DateTime: record.Interval.Start.Format(time.RFC3339),
			TimeZone: record.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: record.Interval.End.Format(time.RFC3339),
			TimeZone: record.Timezone,
		},
	}

	created, err := g.api.InsertEvent(ctx, g.calendarID, event)
	if err != nil {
		return "", &domain.UpstreamError{Op: "寫入 Google 行事曆", Err: errors.New(apiErrorText(err))}
	}

	return created.HtmlLink, nil
}

// convertEvent 將 Google Calendar API 的事件轉成內部結構
func (g *GoogleCalendarGateway) convertEvent(event *calendar.Event) (domain.BusyEvent, error) {
	busyEvent := domain.BusyEvent{
		ID:          event.Id,
		Title:       event.Summary,
		Transparent: event.Transparency == "transparent",
	}
	if busyEvent.Title == "" {
		busyEvent.Title = "（無標題）"
	}

	start, allDay, err := parseEventTime(event.Start, g.timezone)
	if err != nil {
		return domain.BusyEvent{}, fmt.Errorf("開始時間解析失敗：%v", err)
	}
	busyEvent.Start = start
	busyEvent.IsAllDay = allDay

	end, _, err := parseEventTime(event.End, g.timezone)
	if err != nil {
		return domain.BusyEvent{}, fmt.Errorf("結束時間解析失敗：%v", err)
	}
	busyEvent.End = end

	return busyEvent, nil
}

// parseEventTime 解析事件時間：有指定時刻用 DateTime，整日事件用 Date
func parseEventTime(eventTime *calendar.EventDateTime, timezone *time.Location) (t time.Time, allDay bool, err error) {
	if eventTime == nil {
		return time.Time{}, false, errors.New("事件缺少時間欄位")
	}
	if eventTime.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, eventTime.DateTime)
		if err != nil {
			return time.Time{}, false, err
		}
		return parsed.In(timezone), false, nil
	}
	if eventTime.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", eventTime.Date, timezone)
		if err != nil {
			return time.Time{}, false, err
		}
		return parsed, true, nil
	}
	return time.Time{}, false, errors.New("事件未設定時間")
}

// overlaps 判斷兩個半開區間 [s1, e1) 與 [s2, e2) 是否重疊
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// apiErrorText 盡量取出 Google API 回傳的錯誤訊息本文
func apiErrorText(err error) string {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Message != "" {
		return gErr.Message
	}
	return err.Error()
}
