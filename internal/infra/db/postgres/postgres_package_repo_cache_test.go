//go:build !integration

package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
)

func TestPackageRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()
	pkg := &model.WifiPackage{ID: "pkg-123", Name: "Premium", PriceKES: 50, SpeedMbps: 25, DurationHours: 12}
	pkgJSON, _ := json.Marshal(pkg)

	t.Run("FindByID should return from cache on hit", func(t *testing.T) {
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return string(pkgJSON), nil // Simulate cache hit
			},
		}
		innerRepoCalled := false
		mockInnerRepo := &mockInnerPackageRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.WifiPackage, error) {
				innerRepoCalled = true // This should not be called
				return nil, nil
			},
		}

		decorator := NewPackageRepoCacheDecorator(mockInnerRepo, mockRedis, time.Hour)

		result, err := decorator.FindByID(ctx, nil, "pkg-123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if innerRepoCalled {
			t.Error("inner repository should not be called on a cache hit")
		}
		if result == nil || result.ID != "pkg-123" {
			t.Error("did not return the correct package from cache")
		}
	})

	t.Run("FindByID falls through to the database on miss", func(t *testing.T) {
		var setKey string
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", redis.Nil
			},
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setKey = key
				return nil
			},
		}
		mockInnerRepo := &mockInnerPackageRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.WifiPackage, error) {
				return pkg, nil
			},
		}

		decorator := NewPackageRepoCacheDecorator(mockInnerRepo, mockRedis, time.Hour)

		result, err := decorator.FindByID(ctx, nil, "pkg-123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Name != "Premium" {
			t.Errorf("unexpected package: %+v", result)
		}
		if setKey != "package:pkg-123" {
			t.Errorf("expected the row to be cached under package:pkg-123, got %q", setKey)
		}
	})

	t.Run("Save should invalidate the cache", func(t *testing.T) {
		var deletedKeys []string
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				deletedKeys = append(deletedKeys, keys...)
				return nil
			},
		}
		mockInnerRepo := &mockInnerPackageRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, pkg *model.WifiPackage) error {
				return nil
			},
		}

		decorator := NewPackageRepoCacheDecorator(mockInnerRepo, mockRedis, time.Hour)

		if err := decorator.Save(ctx, nil, pkg); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(deletedKeys) != 2 {
			t.Fatalf("expected 2 keys to be deleted, but got %d", len(deletedKeys))
		}
	})

	t.Run("Delete should invalidate the cache", func(t *testing.T) {
		var deletedKeys []string
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				deletedKeys = append(deletedKeys, keys...)
				return nil
			},
		}
		mockInnerRepo := &mockInnerPackageRepo{
			DeleteFunc: func(ctx context.Context, tx repository.Tx, id string) error {
				return nil
			},
		}

		decorator := NewPackageRepoCacheDecorator(mockInnerRepo, mockRedis, time.Hour)

		if err := decorator.Delete(ctx, nil, "pkg-123"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(deletedKeys) != 2 {
			t.Fatalf("expected 2 keys to be deleted, but got %d", len(deletedKeys))
		}
	})
}
