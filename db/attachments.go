package db

import (
	"context"

	"supplierhub/models"
)

func (s *Storage) CreateAttachment(ctx context.Context, a *models.RFQAttachment) error {
	query := `
        INSERT INTO rfq_attachments (rfq_id, file_name, file_url, object_key, file_size, mime_type)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	return s.db.QueryRowContext(ctx, query,
		a.RFQID, a.FileName, a.FileURL, a.ObjectKey, a.FileSize, a.MimeType).
		Scan(&a.ID, &a.CreatedAt)
}

func (s *Storage) ListAttachments(ctx context.Context, rfqID string) ([]models.RFQAttachment, error) {
	attachments := []models.RFQAttachment{}
	query := `SELECT * FROM rfq_attachments WHERE rfq_id=$1 ORDER BY created_at ASC`
	err := s.db.SelectContext(ctx, &attachments, query, rfqID)
	return attachments, err
}

func (s *Storage) GetAttachment(ctx context.Context, rfqID, id string) (*models.RFQAttachment, error) {
	a := &models.RFQAttachment{}
	query := `SELECT * FROM rfq_attachments WHERE id=$1 AND rfq_id=$2`
	if err := s.db.GetContext(ctx, a, query, id, rfqID); err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (s *Storage) DeleteAttachment(ctx context.Context, rfqID, id string) error {
	query := `DELETE FROM rfq_attachments WHERE id=$1 AND rfq_id=$2`
	return affected(s.db.ExecContext(ctx, query, id, rfqID))
}
