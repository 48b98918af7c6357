package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/metrics"
	red "github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/redis"
)

var _ repository.WifiPackageRepository = (*packageRepoCacheDecorator)(nil)

// packageRepoCacheDecorator fronts the catalog with Redis. The storefront
// reads the catalog on every page load; writes are rare admin actions.
type packageRepoCacheDecorator struct {
	inner repository.WifiPackageRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewPackageRepoCacheDecorator(inner repository.WifiPackageRepository, cache red.RedisClient, ttl time.Duration) repository.WifiPackageRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &packageRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func (d *packageRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.WifiPackage, error) {
	key := fmt.Sprintf("package:%s", id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("package", "hit")
		var pkg model.WifiPackage
		if json.Unmarshal([]byte(val), &pkg) == nil {
			return &pkg, nil
		}
	} else if err != redis.Nil {
		metrics.IncCacheRequest("package", "error")
	}

	metrics.IncCacheRequest("package", "miss")
	pkg, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if pkg != nil {
		bytes, _ := json.Marshal(pkg)
		d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return pkg, nil
}

// For write operations, we must invalidate the cache.
func (d *packageRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, pkg *model.WifiPackage) error {
	d.cache.Del(ctx, fmt.Sprintf("package:%s", pkg.ID))
	d.cache.Del(ctx, "packages:all")
	return d.inner.Save(ctx, tx, pkg)
}

func (d *packageRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id string) error {
	d.cache.Del(ctx, fmt.Sprintf("package:%s", id))
	d.cache.Del(ctx, "packages:all")
	return d.inner.Delete(ctx, tx, id)
}

func (d *packageRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.WifiPackage, error) {
	const key = "packages:all"
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("package_list", "hit")
		var pkgs []*model.WifiPackage
		if json.Unmarshal([]byte(val), &pkgs) == nil {
			return pkgs, nil
		}
	}

	metrics.IncCacheRequest("package_list", "miss")
	pkgs, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(pkgs) > 0 {
		bytes, _ := json.Marshal(pkgs)
		d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return pkgs, nil
}
