package schedule

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ycchou/google-calendar-booking-api/internal/domain"
)

// DefaultTimezone 預約時間一律以台北時間解讀，與主機本身的時區無關
const DefaultTimezone = "Asia/Taipei"

// TimeResolver 將表單的日期、時間與時長換算成絕對時間區間
type TimeResolver struct {
	loc *time.Location
}

// NewTimeResolver 建立 TimeResolver，name 為 IANA 時區名稱（空字串使用預設值）
func NewTimeResolver(name string) (*TimeResolver, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("時區 %s 載入失敗：%v", name, err)
	}
	return &TimeResolver{loc: loc}, nil
}

// Location 回傳固定使用的時區
func (r *TimeResolver) Location() *time.Location {
	return r.loc
}

// Resolve 解析 date（2006-01-02）、timeOfDay（15:04）與 duration（小時數）。
// 無法解析或時長不是正數時，回傳包裝 domain.ErrInvalidTimeInput 的錯誤。
func (r *TimeResolver) Resolve(date, timeOfDay, duration string) (domain.ResolvedInterval, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeOfDay, r.loc)
	if err != nil {
		return domain.ResolvedInterval{}, fmt.Errorf("%w: %q %q", domain.ErrInvalidTimeInput, date, timeOfDay)
	}

	hours, err := strconv.ParseFloat(duration, 64)
	if err != nil || hours <= 0 {
		return domain.ResolvedInterval{}, fmt.Errorf("%w: 時長 %q 不是正數", domain.ErrInvalidTimeInput, duration)
	}

	// 以絕對時間相加，確保跨日或跨時區偏移變動時長度仍然固定
	end := start.Add(time.Duration(hours * float64(time.Hour)))

	return domain.ResolvedInterval{Start: start, End: end}, nil
}
