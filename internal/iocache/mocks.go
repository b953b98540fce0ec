package iocache

import (
	"context"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetEventStore implements the StoreManager interface.
func (m *MockStoreManager) GetEventStore() contract.EventStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.EventStore)
	return store
}

// GetCacheStore implements the StoreManager interface.
func (m *MockStoreManager) GetCacheStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Purge implements the CacheStore interface.
func (m *MockCacheStore) Purge() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockEventStore is a mock implementation of EventStore for testing.
type MockEventStore struct {
	mock.Mock
}

var _ contract.EventStore = &MockEventStore{} // Compile-time check

// LoadEvents implements the EventStore interface.
func (m *MockEventStore) LoadEvents(ctx context.Context) ([]schema.InterviewEvent, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]schema.InterviewEvent)
	return events, args.Error(1)
}

// NaturalKeys implements the EventStore interface.
func (m *MockEventStore) NaturalKeys(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	keys, _ := args.Get(0).(map[string]struct{})
	return keys, args.Error(1)
}

// Ingest implements the EventStore interface.
func (m *MockEventStore) Ingest(ctx context.Context, upload schema.UploadRecord, events []schema.InterviewEvent, strict bool) (int, error) {
	args := m.Called(ctx, upload, events, strict)
	return args.Int(0), args.Error(1)
}

// CountEvents implements the EventStore interface.
func (m *MockEventStore) CountEvents(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// ListUploads implements the EventStore interface.
func (m *MockEventStore) ListUploads(ctx context.Context) ([]schema.UploadRecord, error) {
	args := m.Called(ctx)
	uploads, _ := args.Get(0).([]schema.UploadRecord)
	return uploads, args.Error(1)
}

// DeleteUpload implements the EventStore interface.
func (m *MockEventStore) DeleteUpload(ctx context.Context, filename string, purgeEvents bool) (schema.UploadDeletion, error) {
	args := m.Called(ctx, filename, purgeEvents)
	return args.Get(0).(schema.UploadDeletion), args.Error(1)
}

// GetStatus implements the EventStore interface.
func (m *MockEventStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the EventStore interface.
func (m *MockEventStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
