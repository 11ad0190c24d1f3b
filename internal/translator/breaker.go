package translator

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerService wraps a TranslationService in a circuit breaker so a
// provider that starts failing hard is given time to recover instead of
// being hammered with every batch. The pipeline itself owns no retry or
// backoff; this is the transport-level guard it delegates to.
type BreakerService struct {
	inner TranslationService
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps svc. The breaker opens after five consecutive failures
// and probes again after 30 seconds.
func WithBreaker(svc TranslationService) *BreakerService {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        svc.Name(),
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &BreakerService{inner: svc, cb: cb}
}

func (s *BreakerService) Name() string {
	return s.inner.Name()
}

func (s *BreakerService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	out, err := s.cb.Execute(func() (interface{}, error) {
		return s.inner.Translate(ctx, cfg, req)
	})
	if err != nil {
		if res, ok := out.(*ServiceResult); ok && res != nil {
			return res, err
		}
		return &ServiceResult{ServiceName: s.Name(), Error: err.Error()}, err
	}
	return out.(*ServiceResult), nil
}

func (s *BreakerService) IsAvailable(ctx context.Context) error {
	return s.inner.IsAvailable(ctx)
}

func (s *BreakerService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return s.inner.SupportedLanguages(ctx)
}
