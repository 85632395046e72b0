package db

import (
	"context"
	"fmt"

	"supplierhub/models"
)

func (s *Storage) CreateQuote(ctx context.Context, q *models.RFQQuote) error {
	query := `
        INSERT INTO rfq_quotes
            (rfq_id, factory_id, price, currency, lead_time_days, moq_units, description, terms, status)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at`
	return s.db.QueryRowContext(ctx, query,
		q.RFQID, q.FactoryID, q.Price, q.Currency, q.LeadTimeDays, q.MOQUnits, q.Description, q.Terms, q.Status).
		Scan(&q.ID, &q.CreatedAt)
}

// ListQuotes returns quotes in arrival order.
func (s *Storage) ListQuotes(ctx context.Context, rfqID string) ([]models.RFQQuote, error) {
	quotes := []models.RFQQuote{}
	query := `SELECT * FROM rfq_quotes WHERE rfq_id=$1 ORDER BY created_at ASC, id ASC`
	err := s.db.SelectContext(ctx, &quotes, query, rfqID)
	return quotes, err
}

func (s *Storage) CountQuotes(ctx context.Context, rfqID string) (int, error) {
	var count int
	query := `SELECT COUNT(1) FROM rfq_quotes WHERE rfq_id=$1`
	err := s.db.GetContext(ctx, &count, query, rfqID)
	return count, err
}

// GetQuote loads a quote on an RFQ owned by ownerID.
func (s *Storage) GetQuote(ctx context.Context, ownerID, id string) (*models.RFQQuote, error) {
	q := &models.RFQQuote{}
	query := `
        SELECT q.* FROM rfq_quotes q
        JOIN rfqs r ON r.id = q.rfq_id
        WHERE q.id=$1 AND r.owner_id=$2`
	if err := s.db.GetContext(ctx, q, query, id, ownerID); err != nil {
		return nil, notFound(err)
	}
	return q, nil
}

// DecideQuote moves a pending quote to status. A quote that is no longer
// pending yields models.ErrInvalidTransition.
func (s *Storage) DecideQuote(ctx context.Context, id, status string) error {
	query := `UPDATE rfq_quotes SET status=$1 WHERE id=$2 AND status=$3`
	err := affected(s.db.ExecContext(ctx, query, status, id, models.QuoteStatusPending))
	if err == ErrNotFound {
		return fmt.Errorf("%w: quote is no longer pending", models.ErrInvalidTransition)
	}
	return err
}
