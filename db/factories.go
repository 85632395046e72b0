package db

import (
	"context"
	"strings"

	"supplierhub/models"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

const factoryColumns = `id, name_cn, name_en, city, province, segment, address, latitude, longitude,
    contact_person, wechat_id, phone, email, website, moq, lead_time_days, monthly_capacity,
    cert_bsci, cert_oeko_tex, cert_gots, cert_wrap, cert_sedex, interaction_level, verified_at, created_at`

// FactoryFilter narrows the catalog. Zero values mean no restriction and a
// zero Limit returns every match.
type FactoryFilter struct {
	Query      string
	Segment    string
	City       string
	Province   string
	CategoryID string
	Limit      int
	Offset     int
}

func (s *Storage) ListFactories(ctx context.Context, f FactoryFilter) ([]models.Factory, error) {
	q := s.sb.Select(factoryColumns).From("factories").OrderBy("name_en ASC", "id ASC")

	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + term + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name_cn": like},
			squirrel.ILike{"name_en": like},
			squirrel.ILike{"city": like},
			squirrel.ILike{"segment": like},
			squirrel.ILike{"contact_person": like},
		})
	}
	if f.Segment != "" {
		q = q.Where(squirrel.Eq{"segment": f.Segment})
	}
	if f.City != "" {
		q = q.Where(squirrel.Eq{"city": f.City})
	}
	if f.Province != "" {
		q = q.Where(squirrel.Eq{"province": f.Province})
	}
	if f.CategoryID != "" {
		q = q.Where("id IN (SELECT factory_id FROM factory_categories WHERE category_id = ?)", f.CategoryID)
	}

	query, args, err := paginate(q, f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, err
	}

	factories := []models.Factory{}
	if err := s.db.SelectContext(ctx, &factories, query, args...); err != nil {
		return nil, err
	}
	return factories, nil
}

func (s *Storage) GetFactory(ctx context.Context, id string) (*models.Factory, error) {
	f := &models.Factory{}
	query := `SELECT ` + factoryColumns + ` FROM factories WHERE id=$1`
	if err := s.db.GetContext(ctx, f, query, id); err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

// GetFactoriesByIDs returns the factories in the order of ids, skipping
// unknown ones.
func (s *Storage) GetFactoriesByIDs(ctx context.Context, ids []string) ([]models.Factory, error) {
	if len(ids) == 0 {
		return []models.Factory{}, nil
	}
	found := []models.Factory{}
	query := `SELECT ` + factoryColumns + ` FROM factories WHERE id = ANY($1::uuid[])`
	if err := s.db.SelectContext(ctx, &found, query, pq.Array(ids)); err != nil {
		return nil, err
	}

	byID := make(map[string]models.Factory, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	ordered := make([]models.Factory, 0, len(found))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			ordered = append(ordered, f)
			delete(byID, id)
		}
	}
	return ordered, nil
}
