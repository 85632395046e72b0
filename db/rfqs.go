package db

import (
	"context"

	"supplierhub/models"

	"github.com/Masterminds/squirrel"
)

const rfqColumns = "id, title, description, quantity, deadline, priority, status, category_id, owner_id, created_at, updated_at"

type RFQFilter struct {
	OwnerID string
	Status  string
	Limit   int
	Offset  int
}

func (s *Storage) CreateRFQ(ctx context.Context, r *models.RFQ) error {
	query := `
        INSERT INTO rfqs
            (title, description, quantity, deadline, priority, status, category_id, owner_id)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		r.Title, r.Description, r.Quantity, r.Deadline, r.Priority, r.Status, r.CategoryID, r.OwnerID).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// GetRFQ loads an RFQ owned by ownerID.
func (s *Storage) GetRFQ(ctx context.Context, ownerID, id string) (*models.RFQ, error) {
	r := &models.RFQ{}
	query := `SELECT ` + rfqColumns + ` FROM rfqs WHERE id=$1 AND owner_id=$2`
	if err := s.db.GetContext(ctx, r, query, id, ownerID); err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

func (s *Storage) ListRFQs(ctx context.Context, f RFQFilter) ([]models.RFQ, error) {
	q := s.sb.Select(rfqColumns).
		From("rfqs").
		Where(squirrel.Eq{"owner_id": f.OwnerID}).
		OrderBy("created_at DESC")
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	query, args, err := paginate(q, f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, err
	}

	rfqs := []models.RFQ{}
	if err := s.db.SelectContext(ctx, &rfqs, query, args...); err != nil {
		return nil, err
	}
	return rfqs, nil
}

// UpdateRFQ writes the mutable fields back and stamps updated_at.
func (s *Storage) UpdateRFQ(ctx context.Context, r *models.RFQ) error {
	query := `
        UPDATE rfqs
        SET title=$1, description=$2, quantity=$3, deadline=$4, priority=$5, status=$6,
            category_id=$7, updated_at=NOW()
        WHERE id=$8 AND owner_id=$9
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		r.Title, r.Description, r.Quantity, r.Deadline, r.Priority, r.Status, r.CategoryID, r.ID, r.OwnerID).
		Scan(&r.UpdatedAt)
	return notFound(err)
}

func (s *Storage) SetRFQStatus(ctx context.Context, id, status string) error {
	query := `UPDATE rfqs SET status=$1, updated_at=NOW() WHERE id=$2`
	return affected(s.db.ExecContext(ctx, query, status, id))
}

// DeleteRFQ removes the RFQ; attachments, sends and quotes cascade.
func (s *Storage) DeleteRFQ(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM rfqs WHERE id=$1 AND owner_id=$2`
	return affected(s.db.ExecContext(ctx, query, id, ownerID))
}
