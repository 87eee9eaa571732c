package ai

import (
	"context"
	"fmt"

	"cratepricer/internal/model"
)

// MockAnalyzer is a canned Analyzer for tests.
type MockAnalyzer struct {
	Fragment *model.MarketData
	Err      error
	Enabled  bool
	Calls    int
}

func (m *MockAnalyzer) Available() bool {
	return m.Enabled
}

func (m *MockAnalyzer) Analyze(ctx context.Context, req Request) (*model.MarketData, error) {
	m.Calls++
	if !m.Enabled {
		return nil, fmt.Errorf("mock analyzer disabled")
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Fragment, nil
}
