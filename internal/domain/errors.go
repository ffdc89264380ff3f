package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTimeInput 日期、時間或時長無法解析成有效的時間點
var ErrInvalidTimeInput = errors.New("無效的日期或時間")

// UpstreamError 行事曆等外部服務呼叫失敗
type UpstreamError struct {
	Op  string // 失敗的操作，例如「讀取行事曆」
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s失敗：%v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
