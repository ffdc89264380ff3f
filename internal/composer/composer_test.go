package composer

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ycchou/google-calendar-booking-api/internal/domain"
)

func testInterval(t *testing.T) domain.ResolvedInterval {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)
	start := time.Date(2024, 6, 10, 14, 0, 0, 0, loc)
	return domain.ResolvedInterval{Start: start, End: start.Add(time.Hour)}
}

// --- Compose 測試 ---

func TestCompose_FullRequest(t *testing.T) {
	req := domain.BookingRequest{
		Name:       "王小明",
		Topic:      "商務會談",
		OtherTopic: "帶簡報",
		Location:   "台北 101",
	}

	record := Compose(req, testInterval(t), "Asia/Taipei")

	assert.Equal(t, "[預約] 王小明 - 商務會談", record.Title)
	assert.Equal(t, "預約人：王小明\n討論主題：商務會談\n地點：台北 101\n備註：帶簡報", record.Description)
	assert.Equal(t, "台北 101", record.Location)
	assert.Equal(t, "Asia/Taipei", record.Timezone)
	assert.True(t, record.Interval.Start.Equal(testInterval(t).Start))
}

func TestCompose_OptionalFieldsEmpty(t *testing.T) {
	req := domain.BookingRequest{Name: "王小明", Topic: "私誼敘舊"}

	record := Compose(req, testInterval(t), "Asia/Taipei")

	assert.Equal(t, "預約人：王小明\n討論主題：私誼敘舊\n備註：無", record.Description)
	assert.NotContains(t, record.Description, "地點")
}

func TestCompose_NoTopic(t *testing.T) {
	req := domain.BookingRequest{Name: "王小明"}

	record := Compose(req, testInterval(t), "Asia/Taipei")

	assert.Equal(t, "[預約] 王小明 - 無特定主題", record.Title)
	assert.Contains(t, record.Description, "討論主題：無特定主題")
}

// --- GoogleCalendarURL 測試 ---

func TestGoogleCalendarURL_SameAbsoluteInstants(t *testing.T) {
	record := Compose(domain.BookingRequest{Name: "王小明", Topic: "私誼敘舊"}, testInterval(t), "Asia/Taipei")

	link := GoogleCalendarURL(record)
	parsed, err := url.Parse(link)
	require.NoError(t, err)

	assert.Equal(t, "calendar.google.com", parsed.Host)
	query := parsed.Query()
	assert.Equal(t, "TEMPLATE", query.Get("action"))
	// 台北 14:00〜15:00 即 UTC 06:00〜07:00
	assert.Equal(t, "20240610T060000Z/20240610T070000Z", query.Get("dates"))
	assert.Equal(t, record.Title, query.Get("text"))
	assert.Equal(t, record.Description, query.Get("details"))
}

func TestGoogleCalendarURL_LocationIncludedWhenPresent(t *testing.T) {
	interval := testInterval(t)

	withLocation := Compose(domain.BookingRequest{Name: "王小明", Location: "台北 101"}, interval, "Asia/Taipei")
	parsed, err := url.Parse(GoogleCalendarURL(withLocation))
	require.NoError(t, err)
	assert.Equal(t, "台北 101", parsed.Query().Get("location"))

	withoutLocation := Compose(domain.BookingRequest{Name: "王小明"}, interval, "Asia/Taipei")
	parsed, err = url.Parse(GoogleCalendarURL(withoutLocation))
	require.NoError(t, err)
	assert.False(t, parsed.Query().Has("location"))
}
