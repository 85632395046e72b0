package handlers

import (
	"context"

	"supplierhub/db"
	"supplierhub/models"
)

type StorageInterface interface {
	CreateRFQ(ctx context.Context, rfq *models.RFQ) error
	GetRFQ(ctx context.Context, ownerID, id string) (*models.RFQ, error)
	ListRFQs(ctx context.Context, filter db.RFQFilter) ([]models.RFQ, error)
	UpdateRFQ(ctx context.Context, rfq *models.RFQ) error
	SetRFQStatus(ctx context.Context, id, status string) error
	DeleteRFQ(ctx context.Context, ownerID, id string) error

	CreateAttachment(ctx context.Context, a *models.RFQAttachment) error
	ListAttachments(ctx context.Context, rfqID string) ([]models.RFQAttachment, error)
	GetAttachment(ctx context.Context, rfqID, id string) (*models.RFQAttachment, error)
	DeleteAttachment(ctx context.Context, rfqID, id string) error

	CreateSentFactory(ctx context.Context, sf *models.RFQSentFactory) error
	ListSentFactories(ctx context.Context, rfqID string) ([]models.RFQSentFactory, error)
	UpdateSentStatus(ctx context.Context, rfqID, id, status string, errMsg *string) error

	CreateQuote(ctx context.Context, q *models.RFQQuote) error
	ListQuotes(ctx context.Context, rfqID string) ([]models.RFQQuote, error)
	CountQuotes(ctx context.Context, rfqID string) (int, error)
	GetQuote(ctx context.Context, ownerID, id string) (*models.RFQQuote, error)
	DecideQuote(ctx context.Context, id, status string) error

	ListTemplates(ctx context.Context, ownerID string) ([]models.RFQEmailTemplate, error)
	GetTemplate(ctx context.Context, ownerID, id string) (*models.RFQEmailTemplate, error)
	GetDefaultTemplate(ctx context.Context, ownerID string) (*models.RFQEmailTemplate, error)
	CreateTemplate(ctx context.Context, t *models.RFQEmailTemplate) error
	UpdateTemplate(ctx context.Context, t *models.RFQEmailTemplate) error
	DeleteTemplate(ctx context.Context, ownerID, id string) error
	ClearDefaultTemplates(ctx context.Context, ownerID string) error

	ListFactories(ctx context.Context, filter db.FactoryFilter) ([]models.Factory, error)
	GetFactory(ctx context.Context, id string) (*models.Factory, error)
	GetFactoriesByIDs(ctx context.Context, ids []string) ([]models.Factory, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)

	GetSubscription(ctx context.Context, userID string) (*models.Subscription, error)
	HasUnlock(ctx context.Context, userID, factoryID string) (bool, error)
	UnlockedFactoryIDs(ctx context.Context, userID string) ([]string, error)
	UnlockFactory(ctx context.Context, userID, factoryID string) error
}
