package llm

import (
	"context"
	"fmt"
	"time"
)

// MockAdapter is a deterministic in-process backend for tests and local runs.
type MockAdapter struct {
	Delay  time.Duration
	Err    error
	Report string
}

func (m *MockAdapter) Name() string {
	return "mock"
}

func (m *MockAdapter) Compare(ctx context.Context, cmp CompareRequest) (string, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.Report != "" {
		return m.Report, nil
	}
	return fmt.Sprintf("compared %d reference chars against %d candidate chars",
		len(cmp.ReferenceText), len(cmp.CandidateText)), nil
}
