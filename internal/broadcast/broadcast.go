// Package broadcast sends an RFQ to a set of factories and tracks the
// delivery state of each send.
package broadcast

import (
	"context"
	"errors"
	"fmt"

	"supplierhub/db"
	"supplierhub/models"

	"go.uber.org/zap"
)

var (
	ErrRFQNotFound      = errors.New("rfq not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrNoFactories      = errors.New("no factories selected")
)

type Store interface {
	GetRFQ(ctx context.Context, ownerID, id string) (*models.RFQ, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	GetFactoriesByIDs(ctx context.Context, ids []string) ([]models.Factory, error)
	GetTemplate(ctx context.Context, ownerID, id string) (*models.RFQEmailTemplate, error)
	GetDefaultTemplate(ctx context.Context, ownerID string) (*models.RFQEmailTemplate, error)
	CreateSentFactory(ctx context.Context, sf *models.RFQSentFactory) error
	SetRFQStatus(ctx context.Context, id, status string) error
}

// Sender identifies the buyer in outgoing messages.
type Sender struct {
	OwnerID string
	Name    string
	Company string
}

// Request is one broadcast. An empty TemplateID uses the owner's default.
type Request struct {
	From       Sender
	RFQID      string
	FactoryIDs []string
	TemplateID string
}

type Result struct {
	RFQ  *models.RFQ             `json:"rfq"`
	Rows []models.RFQSentFactory `json:"rows"`
}

type Broadcaster struct {
	store  Store
	mailer Mailer
	log    *zap.Logger
}

func New(store Store, mailer Mailer, log *zap.Logger) *Broadcaster {
	return &Broadcaster{store: store, mailer: mailer, log: log}
}

// Send delivers the RFQ to each factory in turn and records one row per
// attempt. Per-factory failures are logged and never abort the batch.
// The RFQ ends up at least "sent" whatever the individual outcomes.
func (b *Broadcaster) Send(ctx context.Context, req Request) (*Result, error) {
	rfq, err := b.store.GetRFQ(ctx, req.From.OwnerID, req.RFQID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrRFQNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load rfq: %w", err)
	}
	if len(req.FactoryIDs) == 0 {
		return nil, ErrNoFactories
	}

	subject, body, err := b.template(ctx, req.From.OwnerID, req.TemplateID)
	if err != nil {
		return nil, err
	}

	category := ""
	if rfq.CategoryID != nil {
		c, err := b.store.GetCategory(ctx, *rfq.CategoryID)
		if err != nil {
			b.log.Warn("category lookup failed", zap.String("rfq_id", rfq.ID), zap.Error(err))
		} else {
			category = c.Name
		}
	}

	factories, err := b.store.GetFactoriesByIDs(ctx, req.FactoryIDs)
	if err != nil {
		return nil, fmt.Errorf("load factories: %w", err)
	}
	if len(factories) < len(req.FactoryIDs) {
		b.log.Warn("some selected factories do not exist",
			zap.String("rfq_id", rfq.ID),
			zap.Int("requested", len(req.FactoryIDs)),
			zap.Int("found", len(factories)))
	}

	rows := make([]models.RFQSentFactory, 0, len(factories))
	for i := range factories {
		row, ok := b.sendOne(ctx, rfq, category, req.From, &factories[i], subject, body)
		if ok {
			rows = append(rows, row)
		}
	}

	if models.IsBehind(rfq.Status, models.RFQStatusSent) {
		if err := b.store.SetRFQStatus(ctx, rfq.ID, models.RFQStatusSent); err != nil {
			return nil, fmt.Errorf("mark rfq sent: %w", err)
		}
		rfq.Status = models.RFQStatusSent
	}

	return &Result{RFQ: rfq, Rows: rows}, nil
}

func (b *Broadcaster) sendOne(ctx context.Context, rfq *models.RFQ, category string, from Sender,
	f *models.Factory, subject, body string) (models.RFQSentFactory, bool) {
	vars := NewVars(rfq, category, from, f)
	row := models.RFQSentFactory{
		RFQID:     rfq.ID,
		FactoryID: f.ID,
		Status:    models.SendStatusSent,
	}

	if f.Email == nil || *f.Email == "" {
		msg := "factory has no email address"
		row.Status = models.SendStatusError
		row.ErrorMessage = &msg
	} else {
		row.Email = *f.Email
		err := b.mailer.Send(ctx, Message{
			RFQID:     rfq.ID,
			FactoryID: f.ID,
			To:        row.Email,
			Subject:   Render(subject, vars),
			Body:      Render(body, vars),
		})
		if err != nil {
			b.log.Warn("send to factory failed",
				zap.String("rfq_id", rfq.ID), zap.String("factory_id", f.ID), zap.Error(err))
			msg := err.Error()
			row.Status = models.SendStatusError
			row.ErrorMessage = &msg
		}
	}

	if err := b.store.CreateSentFactory(ctx, &row); err != nil {
		b.log.Error("record send status failed",
			zap.String("rfq_id", rfq.ID), zap.String("factory_id", f.ID), zap.Error(err))
		return row, false
	}
	return row, true
}

func (b *Broadcaster) template(ctx context.Context, ownerID, templateID string) (string, string, error) {
	if templateID != "" {
		t, err := b.store.GetTemplate(ctx, ownerID, templateID)
		if errors.Is(err, db.ErrNotFound) {
			return "", "", ErrTemplateNotFound
		}
		if err != nil {
			return "", "", fmt.Errorf("load template: %w", err)
		}
		return t.Subject, t.Body, nil
	}

	t, err := b.store.GetDefaultTemplate(ctx, ownerID)
	if errors.Is(err, db.ErrNotFound) {
		return DefaultSubject, DefaultBody, nil
	}
	if err != nil {
		return "", "", fmt.Errorf("load default template: %w", err)
	}
	return t.Subject, t.Body, nil
}
