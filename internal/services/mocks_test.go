package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/models"
)

type MockDraftRepo struct {
	mock.Mock
}

func (m *MockDraftRepo) Get(ctx context.Context, userID, section, entityKey string) (*models.Draft, error) {
	args := m.Called(ctx, userID, section, entityKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draft), args.Error(1)
}

func (m *MockDraftRepo) Upsert(ctx context.Context, d *models.Draft) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDraftRepo) Delete(ctx context.Context, userID, section, entityKey string) error {
	args := m.Called(ctx, userID, section, entityKey)
	return args.Error(0)
}

func (m *MockDraftRepo) DeleteUpdatedBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Insert(ctx context.Context, a *models.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActivityRepo) ListByUser(ctx context.Context, userID, section string, limit int64) ([]models.Activity, error) {
	args := m.Called(ctx, userID, section, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	args := m.Called(ctx, key, dst)
	if raw, ok := args.Get(0).(string); ok {
		_ = json.Unmarshal([]byte(raw), dst)
		return true, args.Error(1)
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	args := m.Called(ctx, key, val, ttl)
	return args.Error(0)
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Get(ctx context.Context, path string, out any) error {
	args := m.Called(ctx, path, out)
	if raw, ok := args.Get(0).(string); ok {
		_ = json.Unmarshal([]byte(raw), out)
		return args.Error(1)
	}
	return args.Error(1)
}

func (m *MockAPI) Send(ctx context.Context, method, path string, p *apiclient.Payload, out any) error {
	args := m.Called(ctx, method, path, p, out)
	return args.Error(0)
}
