package translator

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

// flakyService fails every call until fixed.
type flakyService struct {
	calls atomic.Int32
	fixed atomic.Bool
}

func (f *flakyService) Name() string { return "flaky" }

func (f *flakyService) Translate(_ context.Context, _ ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	f.calls.Add(1)
	if !f.fixed.Load() {
		return &ServiceResult{ServiceName: "flaky", Error: "boom"}, errors.New("boom")
	}
	return &ServiceResult{ServiceName: "flaky", TranslatedText: "ok:" + req.Text}, nil
}

func (f *flakyService) IsAvailable(ctx context.Context) error { return nil }

func (f *flakyService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{"ru"}, nil
}

func TestWithBreaker_PassesThroughSuccess(t *testing.T) {
	inner := &flakyService{}
	inner.fixed.Store(true)
	svc := WithBreaker(inner)

	if svc.Name() != "flaky" {
		t.Errorf("expected wrapped name, got %q", svc.Name())
	}

	res, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "hi", TargetLang: "ru"})
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if res.TranslatedText != "ok:hi" {
		t.Errorf("unexpected result %q", res.TranslatedText)
	}
}

func TestWithBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyService{}
	svc := WithBreaker(inner)
	ctx := context.Background()
	req := TranslateRequest{Text: "hi", TargetLang: "ru"}

	// Five consecutive failures trip the breaker.
	for i := 0; i < 5; i++ {
		if _, err := svc.Translate(ctx, ServiceConfig{}, req); err == nil {
			t.Fatalf("call %d: expected failure", i)
		}
	}
	if got := inner.calls.Load(); got != 5 {
		t.Fatalf("expected 5 inner calls, got %d", got)
	}

	// The next call is rejected without reaching the provider.
	res, err := svc.Translate(ctx, ServiceConfig{}, req)
	if err == nil {
		t.Fatal("expected open-circuit error")
	}
	if !strings.Contains(err.Error(), "open") {
		t.Errorf("expected circuit-open error, got %v", err)
	}
	if got := inner.calls.Load(); got != 5 {
		t.Errorf("expected provider untouched while open, got %d calls", got)
	}
	if res == nil || res.ServiceName != "flaky" {
		t.Errorf("expected a populated result even when open, got %+v", res)
	}
}
