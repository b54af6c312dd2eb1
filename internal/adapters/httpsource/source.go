package httpsource

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"splitmark/internal/application"
	"splitmark/internal/domain"
	"splitmark/internal/ports"
)

// Defaults used when Options fields are zero
const (
	DefaultAttempts = 2
	DefaultTimeout  = 30 * time.Second
	DefaultDelay    = 200 * time.Millisecond
)

// maxDocumentSize caps a manifest download
const maxDocumentSize = 64 << 20

// Options configures the HTTP source
type Options struct {
	Attempts uint
	Timeout  time.Duration
	Delay    time.Duration
	Client   *http.Client
	Logger   *zap.Logger
}

// Source implements ports.ManifestSource over HTTP
type Source struct {
	client   *http.Client
	attempts uint
	delay    time.Duration
	logger   *zap.Logger
}

// Ensure Source implements ManifestSource
var _ ports.ManifestSource = (*Source)(nil)

// New creates a new HTTP source
func New(opts Options) *Source {
	if opts.Attempts == 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Source{
		client:   opts.Client,
		attempts: opts.Attempts,
		delay:    opts.Delay,
		logger:   opts.Logger,
	}
}

// FetchManifest retrieves and decodes one IIIF manifest
func (s *Source) FetchManifest(ctx context.Context, url string) (*domain.Manifest, error) {
	body, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return domain.DecodeManifest(body)
}

// FetchIndex retrieves and decodes a manifest-index.json document
func (s *Source) FetchIndex(ctx context.Context, url string) (*domain.VolumeIndex, error) {
	body, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}
	var idx domain.VolumeIndex
	if err := json.Unmarshal(body, &idx); err != nil {
		return nil, &application.ParseError{Source: "volume index", Err: err}
	}
	return &idx, nil
}

// Probe issues a HEAD request; any non-2xx status is an error
func (s *Source) Probe(ctx context.Context, url string) error {
	return s.do(ctx, http.MethodHead, url, func(resp *http.Response) error {
		return nil
	})
}

func (s *Source) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := s.do(ctx, http.MethodGet, url, func(resp *http.Response) error {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
		if err != nil {
			return &application.FetchError{URL: url, Status: resp.StatusCode, Err: err}
		}
		body = b
		return nil
	})
	return body, err
}

// do runs one request with retries. Transport errors and 5xx responses are retried; 4xx are not.
func (s *Source) do(ctx context.Context, method, url string, onOK func(*http.Response) error) error {
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, method, url, nil)
			if err != nil {
				return retry.Unrecoverable(&application.FetchError{URL: url, Err: err})
			}
			req.Header.Set("Accept", "application/json")

			resp, err := s.client.Do(req)
			if err != nil {
				return &application.FetchError{URL: url, Err: err}
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				_, _ = io.Copy(io.Discard, resp.Body)
				return &application.FetchError{URL: url, Status: resp.StatusCode}
			}
			return onOK(resp)
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Debug("retrying fetch",
				zap.String("method", method),
				zap.String("url", url),
				zap.Uint("attempt", n+1),
				zap.Error(err))
		}),
	)
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var fe *application.FetchError
	if errors.As(err, &fe) {
		return fe.Status == 0 || fe.Status >= 500
	}
	return true
}
