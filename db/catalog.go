package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"supplierhub/models"
)

func (s *Storage) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories, `SELECT id, name, slug FROM categories ORDER BY name ASC`)
	return categories, err
}

func (s *Storage) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	c := &models.Category{}
	if err := s.db.GetContext(ctx, c, `SELECT id, name, slug FROM categories WHERE id=$1`, id); err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *Storage) GetSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	sub := &models.Subscription{}
	query := `SELECT user_id, plan, status, credits, current_period_end FROM subscriptions WHERE user_id=$1`
	if err := s.db.GetContext(ctx, sub, query, userID); err != nil {
		return nil, notFound(err)
	}
	return sub, nil
}

func (s *Storage) HasUnlock(ctx context.Context, userID, factoryID string) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM factory_unlocks WHERE user_id=$1 AND factory_id=$2`
	if err := s.db.GetContext(ctx, &count, query, userID, factoryID); err != nil {
		return false, err
	}
	return count > 0, nil
}

// UnlockedFactoryIDs lists every factory the user has unlocked individually.
func (s *Storage) UnlockedFactoryIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	query := `SELECT factory_id FROM factory_unlocks WHERE user_id=$1`
	err := s.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

// UnlockFactory spends one credit and records the unlock in one
// transaction. Unlocking twice is free.
func (s *Storage) UnlockFactory(ctx context.Context, userID, factoryID string) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists int
	err = tx.GetContext(ctx, &exists,
		`SELECT COUNT(1) FROM factory_unlocks WHERE user_id=$1 AND factory_id=$2`, userID, factoryID)
	if err != nil {
		return err
	}
	if exists > 0 {
		return tx.Commit()
	}

	var credits int
	err = tx.GetContext(ctx, &credits,
		`SELECT credits FROM subscriptions WHERE user_id=$1 FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && credits <= 0) {
		err = ErrNoCredits
		return err
	}
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE subscriptions SET credits = credits - 1 WHERE user_id=$1`, userID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO factory_unlocks (user_id, factory_id, created_at) VALUES ($1, $2, $3)`,
		userID, factoryID, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}
