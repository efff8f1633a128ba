package middleware

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	apperrors "courtbook/pkg/errors"
	httputil "courtbook/pkg/http"
)

// timeoutWriter buffers the handler's response so nothing reaches the
// client once the deadline has fired.
type timeoutWriter struct {
	mu         sync.Mutex
	header     http.Header
	body       bytes.Buffer
	statusCode int
	timedOut   bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.statusCode != 0 {
		return
	}
	tw.statusCode = code
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if tw.statusCode == 0 {
		tw.statusCode = http.StatusOK
	}
	return tw.body.Write(b)
}

func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)
			tw := &timeoutWriter{header: make(http.Header)}

			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case p := <-panicked:
				panic(p)
			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()
				for k, v := range tw.header {
					w.Header()[k] = v
				}
				if tw.statusCode == 0 {
					tw.statusCode = http.StatusOK
				}
				w.WriteHeader(tw.statusCode)
				_, _ = w.Write(tw.body.Bytes())
			case <-ctx.Done():
				tw.mu.Lock()
				tw.timedOut = true
				tw.mu.Unlock()
				_ = httputil.WriteError(w, apperrors.Timeout("Request timeout"))
			}
		})
	}
}
