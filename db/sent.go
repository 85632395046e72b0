package db

import (
	"context"

	"supplierhub/models"
)

func (s *Storage) CreateSentFactory(ctx context.Context, sf *models.RFQSentFactory) error {
	query := `
        INSERT INTO rfq_sent_factories (rfq_id, factory_id, email, status, error_message)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, sent_at`
	return s.db.QueryRowContext(ctx, query,
		sf.RFQID, sf.FactoryID, sf.Email, sf.Status, sf.ErrorMessage).
		Scan(&sf.ID, &sf.SentAt)
}

func (s *Storage) ListSentFactories(ctx context.Context, rfqID string) ([]models.RFQSentFactory, error) {
	rows := []models.RFQSentFactory{}
	query := `SELECT * FROM rfq_sent_factories WHERE rfq_id=$1 ORDER BY sent_at ASC`
	err := s.db.SelectContext(ctx, &rows, query, rfqID)
	return rows, err
}

// UpdateSentStatus records a delivery callback for one send row.
func (s *Storage) UpdateSentStatus(ctx context.Context, rfqID, id, status string, errMsg *string) error {
	query := `UPDATE rfq_sent_factories SET status=$1, error_message=$2 WHERE id=$3 AND rfq_id=$4`
	return affected(s.db.ExecContext(ctx, query, status, errMsg, id, rfqID))
}
