// Package cache wraps repositories whose rows change rarely with an expiring LRU.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"enrolinvitation/internal/domain"
)

type roleCache struct {
	next  domain.RoleRepository
	cache *expirable.LRU[string, *domain.Role]
}

// NewRoleCache caches GetByID lookups. Per-user role listings are always read through.
func NewRoleCache(next domain.RoleRepository, size int, ttl time.Duration) domain.RoleRepository {
	return &roleCache{
		next:  next,
		cache: expirable.NewLRU[string, *domain.Role](size, nil, ttl),
	}
}

func (c *roleCache) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	if role, ok := c.cache.Get(id); ok {
		return role, nil
	}
	role, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, role)
	return role, nil
}

func (c *roleCache) ListByUserInCourse(ctx context.Context, userID, courseID string) ([]*domain.Role, error) {
	return c.next.ListByUserInCourse(ctx, userID, courseID)
}
