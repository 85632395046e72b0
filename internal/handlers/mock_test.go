package handlers_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"supplierhub/db"
	"supplierhub/models"

	"github.com/google/uuid"
)

// MockStorage implements StorageInterface over in-memory maps and records
// the order of writes in calls.
type MockStorage struct {
	rfqs         map[string]*models.RFQ
	attachments  []models.RFQAttachment
	sent         []models.RFQSentFactory
	quotes       []*models.RFQQuote
	templates    []*models.RFQEmailTemplate
	factories    []models.Factory
	categories   []models.Category
	subscription *models.Subscription
	unlocks      map[string]bool
	credits      int

	calls []string

	createRFQErr      error
	ListFactoriesFunc func(ctx context.Context, f db.FactoryFilter) ([]models.Factory, error)
}

func newMockStorage() *MockStorage {
	return &MockStorage{rfqs: map[string]*models.RFQ{}, unlocks: map[string]bool{}}
}

func (m *MockStorage) CreateRFQ(ctx context.Context, r *models.RFQ) error {
	if m.createRFQErr != nil {
		return m.createRFQErr
	}
	r.ID = uuid.NewString()
	r.CreatedAt, r.UpdatedAt = time.Now(), time.Now()
	cp := *r
	m.rfqs[r.ID] = &cp
	m.calls = append(m.calls, "CreateRFQ")
	return nil
}

func (m *MockStorage) GetRFQ(ctx context.Context, ownerID, id string) (*models.RFQ, error) {
	r, ok := m.rfqs[id]
	if !ok || r.OwnerID != ownerID {
		return nil, db.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MockStorage) ListRFQs(ctx context.Context, f db.RFQFilter) ([]models.RFQ, error) {
	out := []models.RFQ{}
	for _, r := range m.rfqs {
		if r.OwnerID == f.OwnerID && (f.Status == "" || r.Status == f.Status) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockStorage) UpdateRFQ(ctx context.Context, r *models.RFQ) error {
	if _, ok := m.rfqs[r.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *r
	m.rfqs[r.ID] = &cp
	m.calls = append(m.calls, "UpdateRFQ")
	return nil
}

func (m *MockStorage) SetRFQStatus(ctx context.Context, id, status string) error {
	r, ok := m.rfqs[id]
	if !ok {
		return db.ErrNotFound
	}
	r.Status = status
	m.calls = append(m.calls, "SetRFQStatus:"+status)
	return nil
}

func (m *MockStorage) DeleteRFQ(ctx context.Context, ownerID, id string) error {
	if r, ok := m.rfqs[id]; !ok || r.OwnerID != ownerID {
		return db.ErrNotFound
	}
	delete(m.rfqs, id)
	kept := m.attachments[:0]
	for _, a := range m.attachments {
		if a.RFQID != id {
			kept = append(kept, a)
		}
	}
	m.attachments = kept
	m.calls = append(m.calls, "DeleteRFQ")
	return nil
}

func (m *MockStorage) CreateAttachment(ctx context.Context, a *models.RFQAttachment) error {
	a.ID = uuid.NewString()
	m.attachments = append(m.attachments, *a)
	m.calls = append(m.calls, "CreateAttachment")
	return nil
}

func (m *MockStorage) ListAttachments(ctx context.Context, rfqID string) ([]models.RFQAttachment, error) {
	out := []models.RFQAttachment{}
	for _, a := range m.attachments {
		if a.RFQID == rfqID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockStorage) GetAttachment(ctx context.Context, rfqID, id string) (*models.RFQAttachment, error) {
	for _, a := range m.attachments {
		if a.RFQID == rfqID && a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MockStorage) DeleteAttachment(ctx context.Context, rfqID, id string) error {
	for i, a := range m.attachments {
		if a.RFQID == rfqID && a.ID == id {
			m.attachments = append(m.attachments[:i], m.attachments[i+1:]...)
			m.calls = append(m.calls, "DeleteAttachment")
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *MockStorage) CreateSentFactory(ctx context.Context, sf *models.RFQSentFactory) error {
	sf.ID = uuid.NewString()
	sf.SentAt = time.Now()
	m.sent = append(m.sent, *sf)
	return nil
}

func (m *MockStorage) ListSentFactories(ctx context.Context, rfqID string) ([]models.RFQSentFactory, error) {
	out := []models.RFQSentFactory{}
	for _, s := range m.sent {
		if s.RFQID == rfqID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockStorage) UpdateSentStatus(ctx context.Context, rfqID, id, status string, errMsg *string) error {
	for i := range m.sent {
		if m.sent[i].RFQID == rfqID && m.sent[i].ID == id {
			m.sent[i].Status = status
			m.sent[i].ErrorMessage = errMsg
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *MockStorage) CreateQuote(ctx context.Context, q *models.RFQQuote) error {
	q.ID = uuid.NewString()
	cp := *q
	m.quotes = append(m.quotes, &cp)
	m.calls = append(m.calls, "CreateQuote")
	return nil
}

func (m *MockStorage) ListQuotes(ctx context.Context, rfqID string) ([]models.RFQQuote, error) {
	out := []models.RFQQuote{}
	for _, q := range m.quotes {
		if q.RFQID == rfqID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (m *MockStorage) CountQuotes(ctx context.Context, rfqID string) (int, error) {
	list, _ := m.ListQuotes(ctx, rfqID)
	return len(list), nil
}

func (m *MockStorage) GetQuote(ctx context.Context, ownerID, id string) (*models.RFQQuote, error) {
	for _, q := range m.quotes {
		if q.ID != id {
			continue
		}
		if r, ok := m.rfqs[q.RFQID]; ok && r.OwnerID == ownerID {
			cp := *q
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MockStorage) DecideQuote(ctx context.Context, id, status string) error {
	for _, q := range m.quotes {
		if q.ID == id {
			if q.Status != models.QuoteStatusPending {
				return fmt.Errorf("%w: quote is no longer pending", models.ErrInvalidTransition)
			}
			q.Status = status
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *MockStorage) ListTemplates(ctx context.Context, ownerID string) ([]models.RFQEmailTemplate, error) {
	out := []models.RFQEmailTemplate{}
	for _, t := range m.templates {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *MockStorage) GetTemplate(ctx context.Context, ownerID, id string) (*models.RFQEmailTemplate, error) {
	for _, t := range m.templates {
		if t.ID == id && t.OwnerID == ownerID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MockStorage) GetDefaultTemplate(ctx context.Context, ownerID string) (*models.RFQEmailTemplate, error) {
	for _, t := range m.templates {
		if t.OwnerID == ownerID && t.IsDefault {
			cp := *t
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MockStorage) CreateTemplate(ctx context.Context, t *models.RFQEmailTemplate) error {
	t.ID = uuid.NewString()
	cp := *t
	m.templates = append(m.templates, &cp)
	m.calls = append(m.calls, "CreateTemplate")
	return nil
}

func (m *MockStorage) UpdateTemplate(ctx context.Context, t *models.RFQEmailTemplate) error {
	for i, cur := range m.templates {
		if cur.ID == t.ID && cur.OwnerID == t.OwnerID {
			cp := *t
			m.templates[i] = &cp
			m.calls = append(m.calls, "UpdateTemplate")
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *MockStorage) DeleteTemplate(ctx context.Context, ownerID, id string) error {
	for i, t := range m.templates {
		if t.ID == id && t.OwnerID == ownerID {
			m.templates = append(m.templates[:i], m.templates[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *MockStorage) ClearDefaultTemplates(ctx context.Context, ownerID string) error {
	for _, t := range m.templates {
		if t.OwnerID == ownerID {
			t.IsDefault = false
		}
	}
	m.calls = append(m.calls, "ClearDefaultTemplates")
	return nil
}

func (m *MockStorage) ListFactories(ctx context.Context, f db.FactoryFilter) ([]models.Factory, error) {
	if m.ListFactoriesFunc != nil {
		return m.ListFactoriesFunc(ctx, f)
	}
	return m.factories, nil
}

func (m *MockStorage) GetFactory(ctx context.Context, id string) (*models.Factory, error) {
	for _, f := range m.factories {
		if f.ID == id {
			cp := f
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MockStorage) GetFactoriesByIDs(ctx context.Context, ids []string) ([]models.Factory, error) {
	out := []models.Factory{}
	for _, id := range ids {
		if f, err := m.GetFactory(ctx, id); err == nil {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *MockStorage) ListCategories(ctx context.Context) ([]models.Category, error) {
	return m.categories, nil
}

func (m *MockStorage) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MockStorage) GetSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	if m.subscription == nil {
		return nil, db.ErrNotFound
	}
	return m.subscription, nil
}

func (m *MockStorage) HasUnlock(ctx context.Context, userID, factoryID string) (bool, error) {
	return m.unlocks[factoryID], nil
}

func (m *MockStorage) UnlockedFactoryIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	for id := range m.unlocks {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MockStorage) UnlockFactory(ctx context.Context, userID, factoryID string) error {
	if m.unlocks[factoryID] {
		return nil
	}
	if m.credits <= 0 {
		return db.ErrNoCredits
	}
	m.credits--
	m.unlocks[factoryID] = true
	return nil
}
