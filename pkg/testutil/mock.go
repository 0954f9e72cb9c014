package testutil

import (
	"context"
	"time"

	"github.com/questx-lab/campaign/pkg/authenticator"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/pubsub"
	"github.com/questx-lab/campaign/pkg/storage"
	"github.com/questx-lab/campaign/pkg/xredis"
)

type MockRedisClient struct {
	ExistFunc  func(ctx context.Context, key string) (bool, error)
	DelFunc    func(ctx context.Context, key ...string) error
	SetObjFunc func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObjFunc func(ctx context.Context, key string, v any) error
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	return false, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	return nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	return nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	return xredis.ErrNil
}

type MockPublisher struct {
	PublishFunc func(ctx context.Context, topic string, pack *pubsub.Pack) error
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return nil
}

type MockStorage struct {
	PresignUploadFunc func(ctx context.Context, obj *storage.UploadObject) (*storage.UploadResponse, error)
	ExistsFunc        func(ctx context.Context, key string) (bool, error)
}

func (m *MockStorage) PresignUpload(
	ctx context.Context, obj *storage.UploadObject,
) (*storage.UploadResponse, error) {
	if m.PresignUploadFunc != nil {
		return m.PresignUploadFunc(ctx, obj)
	}

	return nil, errorx.New(errorx.Unavailable, "Not implemented")
}

func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, key)
	}

	return true, nil
}

type MockIDVerifier struct {
	VerifyIDTokenFunc func(ctx context.Context, rawIDToken string) (authenticator.Identity, error)
}

func (m *MockIDVerifier) VerifyIDToken(ctx context.Context, rawIDToken string) (authenticator.Identity, error) {
	if m.VerifyIDTokenFunc != nil {
		return m.VerifyIDTokenFunc(ctx, rawIDToken)
	}

	return authenticator.Identity{}, errorx.New(errorx.Unauthenticated, "Not implemented")
}
