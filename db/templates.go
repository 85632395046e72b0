package db

import (
	"context"

	"supplierhub/models"
)

func (s *Storage) ListTemplates(ctx context.Context, ownerID string) ([]models.RFQEmailTemplate, error) {
	templates := []models.RFQEmailTemplate{}
	query := `SELECT * FROM rfq_email_templates WHERE owner_id=$1 ORDER BY is_default DESC, name ASC`
	err := s.db.SelectContext(ctx, &templates, query, ownerID)
	return templates, err
}

func (s *Storage) GetTemplate(ctx context.Context, ownerID, id string) (*models.RFQEmailTemplate, error) {
	t := &models.RFQEmailTemplate{}
	query := `SELECT * FROM rfq_email_templates WHERE id=$1 AND owner_id=$2`
	if err := s.db.GetContext(ctx, t, query, id, ownerID); err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// GetDefaultTemplate returns ErrNotFound when the owner has no default.
func (s *Storage) GetDefaultTemplate(ctx context.Context, ownerID string) (*models.RFQEmailTemplate, error) {
	t := &models.RFQEmailTemplate{}
	query := `
        SELECT * FROM rfq_email_templates
        WHERE owner_id=$1 AND is_default
        ORDER BY updated_at DESC
        LIMIT 1`
	if err := s.db.GetContext(ctx, t, query, ownerID); err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (s *Storage) CreateTemplate(ctx context.Context, t *models.RFQEmailTemplate) error {
	query := `
        INSERT INTO rfq_email_templates (owner_id, name, subject, body, is_default)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return s.db.QueryRowContext(ctx, query, t.OwnerID, t.Name, t.Subject, t.Body, t.IsDefault).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (s *Storage) UpdateTemplate(ctx context.Context, t *models.RFQEmailTemplate) error {
	query := `
        UPDATE rfq_email_templates
        SET name=$1, subject=$2, body=$3, is_default=$4, updated_at=NOW()
        WHERE id=$5 AND owner_id=$6
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query, t.Name, t.Subject, t.Body, t.IsDefault, t.ID, t.OwnerID).
		Scan(&t.UpdatedAt)
	return notFound(err)
}

func (s *Storage) DeleteTemplate(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM rfq_email_templates WHERE id=$1 AND owner_id=$2`
	return affected(s.db.ExecContext(ctx, query, id, ownerID))
}

// ClearDefaultTemplates unsets is_default on every template of the owner.
func (s *Storage) ClearDefaultTemplates(ctx context.Context, ownerID string) error {
	query := `UPDATE rfq_email_templates SET is_default=FALSE WHERE owner_id=$1 AND is_default`
	_, err := s.db.ExecContext(ctx, query, ownerID)
	return err
}
