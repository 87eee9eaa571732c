package catalogue

import "context"

// MockProvider is a configurable in-memory catalogue for tests.
type MockProvider struct {
	Releases map[string]*Details // keyed by release ID
	SearchID string              // release ID every search resolves to
	Fail     bool                // simulate the service being down
	NotFound bool
	Searches int
	Fetches  int
}

func NewMockProvider() *MockProvider {
	return &MockProvider{Releases: make(map[string]*Details)}
}

func (m *MockProvider) Available() bool {
	return true
}

func (m *MockProvider) Search(ctx context.Context, artist, title, catNo string) (string, error) {
	m.Searches++
	if m.Fail {
		return "", context.DeadlineExceeded
	}
	if m.NotFound || m.SearchID == "" {
		return "", ErrNotFound
	}
	return m.SearchID, nil
}

func (m *MockProvider) Details(ctx context.Context, releaseID string) (*Details, error) {
	m.Fetches++
	if m.Fail {
		return nil, context.DeadlineExceeded
	}
	d, ok := m.Releases[releaseID]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}
