package apifootball

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"
)

// RetryPolicy centraliza reintentos y backoff de todas las llamadas al proveedor.
// Reintenta errores de transporte, 429 y 5xx; el resto de 4xx es definitivo.
type RetryPolicy struct {
	MaxRetries int
	BaseWait   time.Duration
}

// DefaultRetryPolicy son 2 reintentos con backoff 500ms, 1s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, BaseWait: 500 * time.Millisecond}
}

// statusError es una respuesta no-2xx del proveedor.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.body)
}

// Do ejecuta fn hasta MaxRetries+1 veces y devuelve el body de la primera respuesta 2xx.
func (p RetryPolicy) Do(ctx context.Context, fn func() (*http.Response, error)) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := p.sleep(ctx, attempt-1); err != nil {
				return nil, fmt.Errorf("retry aborted after %d attempts: %w", attempt, err)
			}
		}

		resp, err := fn()
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			slog.Warn("rate limited by provider", "attempt", attempt+1)
			lastErr = &statusError{code: resp.StatusCode, body: truncate(body)}
			continue
		case resp.StatusCode >= 500:
			lastErr = &statusError{code: resp.StatusCode, body: truncate(body)}
			continue
		case resp.StatusCode >= 300:
			return nil, &statusError{code: resp.StatusCode, body: truncate(body)}
		}

		if readErr != nil {
			lastErr = fmt.Errorf("read body: %w", readErr)
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("request failed after %d retries: %w", p.MaxRetries, lastErr)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (p RetryPolicy) sleep(ctx context.Context, attempt int) error {
	wait := time.Duration(math.Pow(2, float64(attempt))) * p.BaseWait
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func truncate(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
