package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kvstore/internal/config"
	"kvstore/internal/domain"
	"kvstore/internal/storage"
	"kvstore/pkg/logger"
)

// MockDocumentStore is a mock implementation of the document storage contract
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Get(ctx context.Context, key domain.DocumentKey) (*json.RawMessage, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*json.RawMessage), args.Error(1)
}

func (m *MockDocumentStore) Exists(ctx context.Context, key domain.DocumentKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentStore) Insert(ctx context.Context, key domain.DocumentKey, value json.RawMessage) (*json.RawMessage, error) {
	args := m.Called(ctx, key, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*json.RawMessage), args.Error(1)
}

func (m *MockDocumentStore) Remove(ctx context.Context, key domain.DocumentKey) (*json.RawMessage, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*json.RawMessage), args.Error(1)
}

func (m *MockDocumentStore) TTL(ctx context.Context, key domain.DocumentKey) (time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(time.Duration), args.Error(1)
}

func setupDocumentServiceTest() (*MockDocumentStore, DocumentService) {
	store := new(MockDocumentStore)

	cfg := &config.Config{
		StorageBackend:    config.BackendRedis,
		CacheTTL:          time.Hour,
		DocumentKeyLength: 8,
	}

	return store, NewDocumentService(store, cfg, logger.NewLogger())
}

func raw(s string) *json.RawMessage {
	msg := json.RawMessage(s)
	return &msg
}

func TestPutPrefixesTheKeyWithItsCollection(t *testing.T) {
	store, svc := setupDocumentServiceTest()
	ctx := context.Background()

	store.On("Insert", ctx, domain.DocumentKey("sessions:user-1"), json.RawMessage(`{"bar":42}`)).
		Return(nil, nil)

	resp, err := svc.Put(ctx, "sessions", "user-1", json.RawMessage(`{"bar":42}`))
	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.Nil(t, resp.Previous)
	store.AssertExpectations(t)
}

func TestPutReportsThePreviousValue(t *testing.T) {
	store, svc := setupDocumentServiceTest()
	ctx := context.Background()

	store.On("Insert", ctx, domain.DocumentKey("sessions:user-1"), mock.Anything).
		Return(raw(`{"bar":42}`), nil)

	resp, err := svc.Put(ctx, "sessions", "user-1", json.RawMessage(`{"bar":69}`))
	require.NoError(t, err)
	assert.False(t, resp.Created)
	require.NotNil(t, resp.Previous)
	assert.JSONEq(t, `{"bar":42}`, string(*resp.Previous))
}

func TestPutRejectsInvalidTargets(t *testing.T) {
	store, svc := setupDocumentServiceTest()
	ctx := context.Background()

	_, err := svc.Put(ctx, "Bad Collection", "k", json.RawMessage(`{}`))
	assert.True(t, errors.Is(err, domain.ErrInvalidCollection))

	_, err = svc.Put(ctx, "sessions", "bad key", json.RawMessage(`{}`))
	assert.True(t, errors.Is(err, domain.ErrInvalidKey))

	_, err = svc.Put(ctx, "sessions", "k", json.RawMessage(`{not json`))
	assert.True(t, errors.Is(err, domain.ErrInvalidValue))

	// Validation failures never touch the store
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateGeneratesAFreeKey(t *testing.T) {
	store, svc := setupDocumentServiceTest()
	ctx := context.Background()

	store.On("Exists", ctx, mock.Anything).Return(false, nil).Once()
	store.On("Insert", ctx, mock.Anything, json.RawMessage(`{"n":1}`)).Return(nil, nil).Once()

	resp, err := svc.Create(ctx, "events", json.RawMessage(`{"n":1}`))
	require.NoError(t, err)
	assert.Len(t, resp.Key, 8)
	assert.True(t, resp.Created)
	store.AssertExpectations(t)
}

func TestCreateRetriesOnKeyCollision(t *testing.T) {
	store, svc := setupDocumentServiceTest()
	ctx := context.Background()

	store.On("Exists", ctx, mock.Anything).Return(true, nil).Once()
	store.On("Exists", ctx, mock.Anything).Return(false, nil).Once()
	store.On("Insert", ctx, mock.Anything, mock.Anything).Return(nil, nil).Once()

	_, err := svc.Create(ctx, "events", json.RawMessage(`{}`))
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestGetReturnsNotFoundForAbsentKeys(t *testing.T) {
	store, svc := setupDocumentServiceTest()
	ctx := context.Background()

	store.On("Get", ctx, domain.DocumentKey("sessions:missing")).Return(nil, nil)

	_, err := svc.Get(ctx, "sessions", "missing")
	assert.True(t, errors.Is(err, domain.ErrDocumentNotFound))
}

func TestGetReturnsTheStoredDocument(t *testing.T) {
	store, svc := setupDocumentServiceTest()
	ctx := context.Background()

	store.On("Get", ctx, domain.DocumentKey("sessions:user-1")).Return(raw(`{"bar":42}`), nil)

	doc, err := svc.Get(ctx, "sessions", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "sessions", doc.Collection)
	assert.Equal(t, "user-1", doc.Key)
	assert.JSONEq(t, `{"bar":42}`, string(doc.Value))
}

func TestDeleteReportsThePreviousValue(t *testing.T) {
	store, svc := setupDocumentServiceTest()
	ctx := context.Background()

	store.On("Remove", ctx, domain.DocumentKey("sessions:user-1")).Return(raw(`{"bar":42}`), nil)

	resp, err := svc.Delete(ctx, "sessions", "user-1")
	require.NoError(t, err)
	assert.True(t, resp.Deleted)
	require.NotNil(t, resp.Previous)
	assert.JSONEq(t, `{"bar":42}`, string(*resp.Previous))
}

func TestDeleteOfAnAbsentDocumentIsNotAnError(t *testing.T) {
	store, svc := setupDocumentServiceTest()
	ctx := context.Background()

	store.On("Remove", ctx, domain.DocumentKey("sessions:missing")).Return(nil, nil)

	resp, err := svc.Delete(ctx, "sessions", "missing")
	require.NoError(t, err)
	assert.False(t, resp.Deleted)
	assert.Nil(t, resp.Previous)
}

func TestTTLPassesTheStoreSentinelThrough(t *testing.T) {
	store, svc := setupDocumentServiceTest()
	ctx := context.Background()

	store.On("TTL", ctx, domain.DocumentKey("sessions:missing")).Return(-2*time.Second, nil)

	ttl, err := svc.TTL(ctx, "sessions", "missing")
	require.NoError(t, err)
	assert.Equal(t, -2*time.Second, ttl)
}

func TestConnectionFailuresSurfaceAsUnavailability(t *testing.T) {
	store, svc := setupDocumentServiceTest()
	ctx := context.Background()

	store.On("Get", ctx, mock.Anything).
		Return(nil, storage.NewConnectionError("dial tcp: connection refused"))

	_, err := svc.Get(ctx, "sessions", "user-1")
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 503, appErr.StatusCode)
}

func TestCodecFailuresSurfaceAsInternalErrors(t *testing.T) {
	store, svc := setupDocumentServiceTest()
	ctx := context.Background()

	store.On("Get", ctx, mock.Anything).
		Return(nil, storage.NewDeserializeError("sessions:user-1", "unexpected end of input"))

	_, err := svc.Get(ctx, "sessions", "user-1")

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.StatusCode)
	assert.True(t, appErr.Internal)
}
