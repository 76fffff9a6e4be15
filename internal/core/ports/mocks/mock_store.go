package mocks

import (
	"context"
	"sync"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
)

// MockCatalogStore is an in-memory implementation of the CatalogStore interface for testing
type MockCatalogStore struct {
	mu      sync.Mutex
	catalog domain.Catalog

	// Failure injection
	LoadErr error
	SaveErr error
	Saves   int
}

// NewMockCatalogStore creates a store holding the default catalog
func NewMockCatalogStore() *MockCatalogStore {
	return &MockCatalogStore{catalog: domain.DefaultCatalog()}
}

// NewMockCatalogStoreWith creates a store holding the given catalog
func NewMockCatalogStoreWith(c domain.Catalog) *MockCatalogStore {
	return &MockCatalogStore{catalog: c}
}

// LoadCatalog returns the current catalog
func (m *MockCatalogStore) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoadErr != nil {
		return domain.Catalog{}, m.LoadErr
	}
	return m.catalog, nil
}

// UpdateCatalog applies fn and keeps the result unless fn or the injected save fails
func (m *MockCatalogStore) UpdateCatalog(ctx context.Context, fn func(domain.Catalog) (domain.Catalog, error)) (domain.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoadErr != nil {
		return domain.Catalog{}, m.LoadErr
	}

	next, err := fn(m.catalog)
	if err != nil {
		return m.catalog, err
	}
	if m.SaveErr != nil {
		return m.catalog, m.SaveErr
	}

	m.catalog = next
	m.Saves++
	return next, nil
}

// Snapshot returns the stored catalog (helper for testing)
func (m *MockCatalogStore) Snapshot() domain.Catalog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog
}

// MockSettingsStore is an in-memory implementation of the SettingsStore interface for testing
type MockSettingsStore struct {
	mu    sync.Mutex
	saved *domain.Settings

	SaveErr error
}

// NewMockSettingsStore creates a store with no saved override
func NewMockSettingsStore() *MockSettingsStore {
	return &MockSettingsStore{}
}

// LoadSettings returns the saved record or the defaults
func (m *MockSettingsStore) LoadSettings(ctx context.Context) (domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saved == nil {
		return domain.DefaultSettings(), nil
	}
	return *m.saved, nil
}

// UpdateSettings applies fn to the current record and keeps the result unless fn or the injected save fails
func (m *MockSettingsStore) UpdateSettings(ctx context.Context, fn func(domain.Settings) (domain.Settings, error)) (domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := domain.DefaultSettings()
	if m.saved != nil {
		current = *m.saved
	}

	next, err := fn(current)
	if err != nil {
		return current, err
	}
	if m.SaveErr != nil {
		return current, m.SaveErr
	}
	m.saved = &next
	return next, nil
}

// ResetSettings drops the saved record
func (m *MockSettingsStore) ResetSettings(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saved = nil
	return nil
}

// HasSaved reports whether an override is stored (helper for testing)
func (m *MockSettingsStore) HasSaved() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved != nil
}
