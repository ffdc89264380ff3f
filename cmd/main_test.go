package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoHandler 回傳收到的 method 與 body，檢查轉接是否保真
var echoHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusTeapot)
	fmt.Fprintf(w, "%s:%s", r.Method, body)
})

// --- newLambdaHandler 測試 ---

func TestLambdaHandler_PassesThroughRequest(t *testing.T) {
	h := newLambdaHandler(echoHandler)

	resp, err := h(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/api/book",
		Body:       `{"name":"王小明"}`,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, `POST:{"name":"王小明"}`, resp.Body)
	assert.Equal(t, "application/json; charset=utf-8", resp.Headers["Content-Type"])
}

func TestLambdaHandler_DecodesBase64Body(t *testing.T) {
	h := newLambdaHandler(echoHandler)

	resp, err := h(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"name":"王小明"}`)),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `POST:{"name":"王小明"}`, resp.Body)
}

func TestLambdaHandler_InvalidBase64(t *testing.T) {
	h := newLambdaHandler(echoHandler)

	resp, err := h(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Body:            "%%%not-base64%%%",
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// --- proxyResponseWriter 測試 ---

func TestProxyResponseWriter_DefaultsTo200(t *testing.T) {
	w := newProxyResponseWriter()
	_, err := w.Write([]byte("ok"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.status)
	assert.Equal(t, "ok", w.body.String())
}
