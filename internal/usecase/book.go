package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ycchou/google-calendar-booking-api/internal/composer"
	"github.com/ycchou/google-calendar-booking-api/internal/domain"
	"github.com/ycchou/google-calendar-booking-api/internal/schedule"
)

// CalendarGateway 行事曆讀寫的 port
type CalendarGateway interface {
	ListBusyEvents(ctx context.Context, interval domain.ResolvedInterval) ([]domain.BusyEvent, error)
	InsertEvent(ctx context.Context, record domain.CalendarEventRecord) (string, error)
}

// Notifier 預約成立後通知擁有者的 port
type Notifier interface {
	SendBookingNotification(ctx context.Context, record domain.CalendarEventRecord, req domain.BookingRequest) error
}

// BookingUseCase 預約處理管線：驗證 → 時間換算 → 規則檢查 →
// 衝突檢查 → 寫入行事曆 → 通知。每次呼叫獨立、無共用狀態。
type BookingUseCase struct {
	resolver *schedule.TimeResolver
	rules    []schedule.Rule
	calendar CalendarGateway
	notifier Notifier
}

// NewBookingUseCase 建立預約管線
func NewBookingUseCase(resolver *schedule.TimeResolver, rules []schedule.Rule, calendar CalendarGateway, notifier Notifier) *BookingUseCase {
	return &BookingUseCase{
		resolver: resolver,
		rules:    rules,
		calendar: calendar,
		notifier: notifier,
	}
}

// Execute 處理一筆預約請求。
// 拒絕（欄位不全、規則不符、時段衝突）以 BookingResult 回報；
// 外部服務失敗才回傳 error，且寫入成功後的通知失敗不影響結果。
func (uc *BookingUseCase) Execute(ctx context.Context, req domain.BookingRequest) (domain.BookingResult, error) {
	// 結構檢查：必填欄位都在，才會碰任何外部服務
	if req.Name == "" || req.Date == "" || req.Time == "" {
		return domain.BookingResult{
			Reason:  domain.RejectInvalidRequest,
			Message: "缺少必要欄位，請確認姓名、日期與時間皆已填寫。",
		}, nil
	}

	interval, err := uc.resolver.Resolve(req.Date, req.Time, req.Duration)
	if err != nil {
		return domain.BookingResult{
			Reason:  domain.RejectInvalidRequest,
			Message: "日期、時間或時長格式不正確，請重新選擇。",
		}, nil
	}

	// 規則檢查：純邏輯，不產生任何副作用
	if verdict := schedule.Evaluate(uc.rules, interval, req.Topic); !verdict.Accepted {
		return domain.BookingResult{
			Reason:  verdict.Reason,
			Message: verdict.Message,
		}, nil
	}

	// 衝突檢查必須在寫入前完成；讀取失敗直接中止，不寫入任何事件
	busyEvents, err := uc.calendar.ListBusyEvents(ctx, interval)
	if err != nil {
		return domain.BookingResult{}, err
	}
	if len(busyEvents) > 0 {
		return domain.BookingResult{
			Reason:  domain.RejectScheduleConflict,
			Message: fmt.Sprintf("⚠️ 該時段已有 %d 筆行程，請選擇其他時間。", len(busyEvents)),
		}, nil
	}

	// 衝突檢查與寫入之間沒有鎖；兩筆同時段的預約同時送出時，
	// 仍可能各自通過檢查並都寫入成功。這是已知限制。
	record := composer.Compose(req, interval, uc.resolver.Location().String())
	htmlLink, err := uc.calendar.InsertEvent(ctx, record)
	if err != nil {
		return domain.BookingResult{}, err
	}
	if htmlLink != "" {
		log.Printf("事件已建立：%s", htmlLink)
	}

	result := domain.BookingResult{
		Success:           true,
		Message:           successMessage(req),
		GoogleCalendarURL: composer.GoogleCalendarURL(record),
	}

	// 通知是 best-effort：寫入已成功，寄送失敗只記錄、不改變結果
	if err := uc.notifier.SendBookingNotification(ctx, record, req); err != nil {
		log.Printf("通知寄送失敗（不影響預約結果）：%v", err)
	}

	return result, nil
}

// successMessage 組出給預約人看的成功訊息（可含簡單 HTML 斷行）
func successMessage(req domain.BookingRequest) string {
	topic := req.Topic
	if req.OtherTopic != "" {
		if topic != "" {
			topic += "、"
		}
		topic += req.OtherTopic
	}
	if topic == "" {
		topic = "未填寫主題"
	}

	var message strings.Builder
	message.WriteString("✅ 預約成功！<br>已同步至 Google 行事曆。")
	message.WriteString(fmt.Sprintf("<br>時間：%s %s", req.Date, req.Time))
	message.WriteString(fmt.Sprintf("<br>主題：%s", topic))
	return message.String()
}
