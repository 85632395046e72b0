// Package paywall decides which catalog fields a buyer may see.
package paywall

import (
	"context"
	"errors"
	"fmt"
	"time"

	"supplierhub/db"
	"supplierhub/models"

	"go.uber.org/zap"
)

// Masked replaces identifying text on locked factories.
const Masked = "••••••"

var ErrNoCredits = db.ErrNoCredits

// CatalogFactory is a factory as shown to one buyer.
type CatalogFactory struct {
	models.Factory
	Locked bool `json:"locked"`
}

// Mask hides names, address, contacts and coordinates unless unlocked.
// Location, segment, capacity and certifications stay visible.
func Mask(f models.Factory, unlocked bool) CatalogFactory {
	if unlocked {
		return CatalogFactory{Factory: f}
	}
	f.NameCN = Masked
	f.NameEN = Masked
	f.Address = ""
	f.ContactPerson = Masked
	f.WeChatID = Masked
	f.Phone = Masked
	f.Email = nil
	f.Website = nil
	f.Latitude = nil
	f.Longitude = nil
	return CatalogFactory{Factory: f, Locked: true}
}

type Store interface {
	GetSubscription(ctx context.Context, userID string) (*models.Subscription, error)
	HasUnlock(ctx context.Context, userID, factoryID string) (bool, error)
	UnlockedFactoryIDs(ctx context.Context, userID string) ([]string, error)
	UnlockFactory(ctx context.Context, userID, factoryID string) error
}

// Cache holds the subscription flag per user.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Checker answers unlock questions for a buyer. Cache may be nil.
type Checker struct {
	store Store
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

func NewChecker(store Store, cache Cache, ttl time.Duration, log *zap.Logger) *Checker {
	return &Checker{store: store, cache: cache, ttl: ttl, log: log, now: time.Now}
}

// Access is the unlock state of one buyer across the catalog.
type Access struct {
	Subscribed bool
	unlocked   map[string]bool
}

func (a Access) Unlocked(factoryID string) bool {
	return a.Subscribed || a.unlocked[factoryID]
}

// Subscribed reports whether the user's plan is active. Cache errors are
// logged and fall through to the store.
func (c *Checker) Subscribed(ctx context.Context, userID string) (bool, error) {
	key := "paywall:sub:" + userID
	if c.cache != nil {
		v, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.log.Warn("subscription cache read failed", zap.String("user_id", userID), zap.Error(err))
		} else if ok {
			return v == "1", nil
		}
	}

	active := false
	sub, err := c.store.GetSubscription(ctx, userID)
	switch {
	case errors.Is(err, db.ErrNotFound):
	case err != nil:
		return false, fmt.Errorf("load subscription: %w", err)
	default:
		active = sub.Active(c.now())
	}

	if c.cache != nil {
		v := "0"
		if active {
			v = "1"
		}
		if err := c.cache.Set(ctx, key, v, c.ttl); err != nil {
			c.log.Warn("subscription cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return active, nil
}

// Unlocked reports whether userID may see factoryID in full.
func (c *Checker) Unlocked(ctx context.Context, userID, factoryID string) (bool, error) {
	subscribed, err := c.Subscribed(ctx, userID)
	if err != nil {
		return false, err
	}
	if subscribed {
		return true, nil
	}
	return c.store.HasUnlock(ctx, userID, factoryID)
}

func (c *Checker) Access(ctx context.Context, userID string) (Access, error) {
	subscribed, err := c.Subscribed(ctx, userID)
	if err != nil {
		return Access{}, err
	}
	if subscribed {
		return Access{Subscribed: true}, nil
	}
	ids, err := c.store.UnlockedFactoryIDs(ctx, userID)
	if err != nil {
		return Access{}, fmt.Errorf("load unlocks: %w", err)
	}
	a := Access{unlocked: make(map[string]bool, len(ids))}
	for _, id := range ids {
		a.unlocked[id] = true
	}
	return a, nil
}

// Unlock spends a credit on factoryID. Subscribers never spend credits.
func (c *Checker) Unlock(ctx context.Context, userID, factoryID string) error {
	subscribed, err := c.Subscribed(ctx, userID)
	if err != nil {
		return err
	}
	if subscribed {
		return nil
	}
	return c.store.UnlockFactory(ctx, userID, factoryID)
}
