// Package handler 對外的 HTTP 介面：單一 POST 端點接收預約請求，
// 將管線結果對應成狀態碼與 JSON 回應。
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/ycchou/google-calendar-booking-api/internal/config"
	"github.com/ycchou/google-calendar-booking-api/internal/domain"
)

// BookingService 預約處理服務（由 usecase.BookingUseCase 實作）
type BookingService interface {
	Execute(ctx context.Context, req domain.BookingRequest) (domain.BookingResult, error)
}

// apiResponse 回給前端的 JSON 結構
type apiResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	GoogleCalendarURL string `json:"googleCalendarUrl,omitempty"`
}

// BookingHandler 預約端點
type BookingHandler struct {
	cfg     *config.Config
	service BookingService
}

// NewBookingHandler 建立預約端點。設定完整性在每次請求時檢查，
// 缺少設定時回 500 並列出缺少的鍵，方便部署時除錯。
func NewBookingHandler(cfg *config.Config, service BookingService) *BookingHandler {
	return &BookingHandler{cfg: cfg, service: service}
}

func (h *BookingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, apiResponse{Message: "Method Not Allowed"})
		return
	}

	if missing := h.cfg.MissingKeys(); len(missing) > 0 {
		log.Printf("設定不完整，缺少：%s", strings.Join(missing, ", "))
		writeJSON(w, http.StatusInternalServerError, apiResponse{
			Message: fmt.Sprintf("⚠️ 系統設定錯誤：缺少環境變數 %s，請聯絡管理員。", strings.Join(missing, ", ")),
		})
		return
	}

	var req domain.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "請求格式錯誤，請重新送出表單。"})
		return
	}

	result, err := h.service.Execute(r.Context(), req)
	if err != nil {
		log.Printf("預約處理失敗：%v", err)
		writeJSON(w, http.StatusInternalServerError, apiResponse{
			Message: fmt.Sprintf("⚠️ 預約失敗：%v", err),
		})
		return
	}

	if !result.Success {
		writeJSON(w, statusForReason(result.Reason), apiResponse{Message: result.Message})
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success:           true,
		Message:           result.Message,
		GoogleCalendarURL: result.GoogleCalendarURL,
	})
}

// statusForReason 拒絕類別對應的 HTTP 狀態碼
func statusForReason(reason domain.RejectReason) int {
	switch reason {
	case domain.RejectInvalidRequest:
		return http.StatusBadRequest
	case domain.RejectScheduleConflict:
		return http.StatusConflict
	default:
		// 規則類拒絕（營業時間、主題限制）
		return http.StatusForbidden
	}
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("回應寫入失敗：%v", err)
	}
}
