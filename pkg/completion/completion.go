package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	configpkg "github.com/fkayakent/recipe-pipeline/pkg/config"
	"github.com/fkayakent/recipe-pipeline/pkg/transcript"
)

// Completer turns a transcript into one text reply from a model endpoint.
type Completer interface {
	Complete(ctx context.Context, messages []transcript.Message) (string, error)
}

// Kind classifies a completion failure.
type Kind string

const (
	KindTimeout   Kind = "timeout"
	KindCanceled  Kind = "canceled"
	KindNetwork   Kind = "network"
	KindAuth      Kind = "auth"
	KindRateLimit Kind = "rate_limit"
	KindAPI       Kind = "api"
	KindMalformed Kind = "malformed"
)

// Error is returned by every Completer in this package.
type Error struct {
	Provider   string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s completion failed (%s, status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s completion failed (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Temporary reports whether resending the same transcript may succeed.
func (e *Error) Temporary() bool {
	switch e.Kind {
	case KindTimeout, KindNetwork, KindRateLimit:
		return true
	case KindAPI:
		return e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

var errEmptyReply = errors.New("empty completion choices")

// Options configures a provider.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// New builds the Completer selected by cfg.Provider.
func New(cfg configpkg.Config) (Completer, error) {
	opts := Options{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	}
	switch cfg.Provider {
	case configpkg.ProviderOpenAI, "":
		return NewOpenAI(opts), nil
	case configpkg.ProviderAnthropic:
		return NewAnthropic(opts), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q", cfg.Provider)
	}
}

// withTimeout bounds one completion call. A non-positive timeout leaves ctx as is.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// classify wraps err as an *Error. status is the HTTP status reported by the
// SDK, or zero when the request never got a response.
func classify(provider string, callCtx context.Context, status int, err error) *Error {
	e := &Error{Provider: provider, StatusCode: status, Err: err}
	switch {
	case errors.Is(err, errEmptyReply):
		e.Kind = KindMalformed
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
		e.Kind = KindTimeout
	case errors.Is(err, context.Canceled) || errors.Is(callCtx.Err(), context.Canceled):
		e.Kind = KindCanceled
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindAuth
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimit
	case status != 0:
		e.Kind = KindAPI
	default:
		e.Kind = KindNetwork
	}
	return e
}
