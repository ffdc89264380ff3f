package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/ycchou/google-calendar-booking-api/internal/config"
	"github.com/ycchou/google-calendar-booking-api/internal/gateway"
	"github.com/ycchou/google-calendar-booking-api/internal/handler"
	"github.com/ycchou/google-calendar-booking-api/internal/schedule"
	"github.com/ycchou/google-calendar-booking-api/internal/usecase"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("設定載入失敗：%v", err)
	}

	bookingHandler, err := buildHandler(ctx, cfg)
	if err != nil {
		log.Fatalf("服務初始化失敗：%v", err)
	}

	// Lambda 環境透過 API Gateway proxy 事件轉接；本機直接起 HTTP server
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(newLambdaHandler(bookingHandler))
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/api/book", bookingHandler)

	log.Printf("預約服務啟動於 :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, mux))
}

// buildHandler 組裝預約端點。設定不完整時仍建立 handler，
// 由 handler 在請求時回報缺少的設定鍵。
func buildHandler(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	resolver, err := schedule.NewTimeResolver(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	var service handler.BookingService
	if len(cfg.MissingKeys()) == 0 {
		calendarGateway, err := gateway.NewGoogleCalendarGateway(
			ctx, cfg.GoogleClientEmail, cfg.GooglePrivateKey, cfg.CalendarID, resolver.Location())
		if err != nil {
			return nil, err
		}
		notifier := gateway.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.NotifyEmail)
		service = usecase.NewBookingUseCase(resolver, schedule.DefaultRules(), calendarGateway, notifier)
	}

	return handler.NewBookingHandler(cfg, service), nil
}

// newLambdaHandler 將 API Gateway proxy 事件轉接到 http.Handler
func newLambdaHandler(h http.Handler) func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		body := req.Body
		if req.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(body)
			if err != nil {
				return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest}, nil
			}
			body = string(decoded)
		}

		path := req.Path
		if path == "" {
			path = "/api/book"
		}

		httpReq, err := http.NewRequestWithContext(ctx, req.HTTPMethod, path, strings.NewReader(body))
		if err != nil {
			return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
		}
		for key, value := range req.Headers {
			httpReq.Header.Set(key, value)
		}

		writer := newProxyResponseWriter()
		h.ServeHTTP(writer, httpReq)

		headers := make(map[string]string, len(writer.header))
		for key, values := range writer.header {
			headers[key] = strings.Join(values, ",")
		}

		return events.APIGatewayProxyResponse{
			StatusCode: writer.status,
			Headers:    headers,
			Body:       writer.body.String(),
		}, nil
	}
}

// proxyResponseWriter 蒐集 http.Handler 的輸出，組成 proxy 回應
type proxyResponseWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newProxyResponseWriter() *proxyResponseWriter {
	return &proxyResponseWriter{header: make(http.Header)}
}

func (w *proxyResponseWriter) Header() http.Header {
	return w.header
}

func (w *proxyResponseWriter) WriteHeader(status int) {
	w.status = status
}

func (w *proxyResponseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(p)
}
