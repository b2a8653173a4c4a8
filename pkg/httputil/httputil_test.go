package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// TestNewClient 测试创建客户端
func TestNewClient(t *testing.T) {
	client := NewClient(
		WithTimeout(10*time.Second),
		WithHeaders(map[string]string{"X-Custom": "value"}),
	)

	if client.httpClient.Timeout != 10*time.Second {
		t.Errorf("自定义超时时间应为10秒，实际为 %v", client.httpClient.Timeout)
	}
	if client.headers["X-Custom"] != "value" {
		t.Errorf("自定义头未设置")
	}
	if client.headers["User-Agent"] != "approvalhub/1.0" {
		t.Errorf("默认User-Agent不正确: %s", client.headers["User-Agent"])
	}
}

// TestClientPostJSON 测试PostJSON方法
func TestClientPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("期望Content-Type为application/json")
		}
		var reqBody map[string]string
		_ = json.NewDecoder(r.Body).Decode(&reqBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": reqBody["message"]})
	}))
	defer server.Close()

	var result map[string]string
	err := NewClient().PostJSON(context.Background(), server.URL, map[string]string{"message": "hello"}, &result)
	if err != nil {
		t.Fatalf("PostJSON() 错误: %v", err)
	}
	if result["echo"] != "hello" {
		t.Errorf("期望 echo='hello'，实际为 '%s'", result["echo"])
	}
}

// TestClientDoesNotRetry 测试5xx不重试且携带默认请求头
func TestClientDoesNotRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Header.Get("X-Upstream-Key") != "secret" {
			t.Errorf("默认请求头未发送")
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(WithHeaders(map[string]string{"X-Upstream-Key": "secret"}))
	err := client.PostJSON(context.Background(), server.URL, map[string]string{"k": "v"}, nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("期望 502 StatusError，实际为 %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("期望请求1次，实际为 %d", calls)
	}
}

// TestClientStatusError 测试非2xx返回 StatusError
func TestClientStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("denied"))
	}))
	defer server.Close()

	err := NewClient().PostJSON(context.Background(), server.URL, map[string]string{}, nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("期望 StatusError，实际为 %v", err)
	}
	if statusErr.StatusCode != http.StatusForbidden || statusErr.Body != "denied" {
		t.Errorf("状态错误内容不正确: %+v", statusErr)
	}
}
