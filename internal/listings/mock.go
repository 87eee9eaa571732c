package listings

import (
	"context"
	"fmt"

	"cratepricer/internal/model"
)

// MockProvider returns canned listing stats for tests.
type MockProvider struct {
	Stats   *model.ListingStats
	Fail    bool
	Enabled bool
	Calls   int
}

func (m *MockProvider) Available() bool {
	return m.Enabled
}

func (m *MockProvider) CurrentListings(ctx context.Context, artist, title string) (*model.ListingStats, error) {
	m.Calls++
	if m.Fail {
		return nil, fmt.Errorf("mock listings failure")
	}
	return m.Stats, nil
}
