package llm

import (
	"context"
	"errors"
	"net/http"
	"textcompare-api/internal/config"
	"textcompare-api/internal/models"
	apierrors "textcompare-api/internal/pkg/errors"
	"time"
)

// Dispatcher routes a comparison to the adapter for the configured provider.
// The adapter set is fixed at construction; supporting a new backend means
// adding an adapter here, not wiring arbitrary strings through.
type Dispatcher struct {
	adapters map[models.Provider]Adapter
	timeout  time.Duration
}

func NewDispatcher(cfg *config.ProviderConfig) *Dispatcher {
	client := &http.Client{Timeout: cfg.Timeout}
	return &Dispatcher{
		adapters: map[models.Provider]Adapter{
			models.ProviderOpenAI: &OpenAIAdapter{BaseURL: cfg.OpenAIBaseURL, Client: client},
			models.ProviderGemini: &GeminiAdapter{BaseURL: cfg.GeminiBaseURL, Client: client},
			models.ProviderMock:   &MockAdapter{},
		},
		timeout: cfg.Timeout,
	}
}

// NewDispatcherWithAdapters builds a dispatcher over an explicit adapter set.
func NewDispatcherWithAdapters(adapters map[models.Provider]Adapter, timeout time.Duration) *Dispatcher {
	return &Dispatcher{adapters: adapters, timeout: timeout}
}

// Compare invokes the backend for the given provider under the uniform
// per-call timeout. Failures come back classified: ErrUnsupportedProvider,
// ErrProviderTimeout, or a ProviderError wrapping the backend detail. The
// dispatcher never retries.
func (d *Dispatcher) Compare(ctx context.Context, provider models.Provider, req CompareRequest) (*SimilarityReport, error) {
	adapter, ok := d.adapters[provider]
	if !ok {
		return nil, apierrors.ErrUnsupportedProvider
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	report, err := adapter.Compare(callCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return nil, apierrors.ErrProviderTimeout
		}
		return nil, &apierrors.ProviderError{Provider: adapter.Name(), Err: err}
	}

	return &SimilarityReport{
		Provider: adapter.Name(),
		Model:    req.Model,
		Report:   report,
	}, nil
}
