package models

import "time"

// RFQ priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Factory market segments
const (
	SegmentLow     = "low"
	SegmentMid     = "mid"
	SegmentMidPlus = "mid+"
	SegmentHigh    = "high"
)

// Currencies accepted on quotes.
var Currencies = []string{"USD", "EUR", "CNY", "GBP", "HKD"}

// RFQ is a buyer's request for quotation.
type RFQ struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Quantity    int       `db:"quantity" json:"quantity"`
	Deadline    time.Time `db:"deadline" json:"deadline"`
	Priority    string    `db:"priority" json:"priority"`
	Status      string    `db:"status" json:"status"`
	CategoryID  *string   `db:"category_id" json:"categoryId,omitempty"`
	OwnerID     string    `db:"owner_id" json:"ownerId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// RFQAttachment is the metadata row of a file stored next to an RFQ.
type RFQAttachment struct {
	ID        string    `db:"id" json:"id"`
	RFQID     string    `db:"rfq_id" json:"rfqId"`
	FileName  string    `db:"file_name" json:"fileName"`
	FileURL   string    `db:"file_url" json:"fileUrl"`
	ObjectKey string    `db:"object_key" json:"-"`
	FileSize  int64     `db:"file_size" json:"fileSize"`
	MimeType  string    `db:"mime_type" json:"mimeType"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// RFQSentFactory records one broadcast attempt of an RFQ to a factory.
type RFQSentFactory struct {
	ID           string    `db:"id" json:"id"`
	RFQID        string    `db:"rfq_id" json:"rfqId"`
	FactoryID    string    `db:"factory_id" json:"factoryId"`
	Email        string    `db:"email" json:"email"`
	SentAt       time.Time `db:"sent_at" json:"sentAt"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage *string   `db:"error_message" json:"errorMessage,omitempty"`
}

// RFQQuote is a factory's offer against an RFQ.
type RFQQuote struct {
	ID           string    `db:"id" json:"id"`
	RFQID        string    `db:"rfq_id" json:"rfqId"`
	FactoryID    string    `db:"factory_id" json:"factoryId"`
	Price        float64   `db:"price" json:"price"`
	Currency     string    `db:"currency" json:"currency"`
	LeadTimeDays int       `db:"lead_time_days" json:"leadTimeDays"`
	MOQUnits     int       `db:"moq_units" json:"moqUnits"`
	Description  string    `db:"description" json:"description"`
	Terms        *string   `db:"terms" json:"terms,omitempty"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// RFQEmailTemplate is a buyer's reusable message for broadcasts.
type RFQEmailTemplate struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"ownerId"`
	Name      string    `db:"name" json:"name"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"body" json:"body"`
	IsDefault bool      `db:"is_default" json:"isDefault"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Factory is platform-owned reference data.
type Factory struct {
	ID               string     `db:"id" json:"id"`
	NameCN           string     `db:"name_cn" json:"nameCn"`
	NameEN           string     `db:"name_en" json:"nameEn"`
	City             string     `db:"city" json:"city"`
	Province         string     `db:"province" json:"province"`
	Segment          string     `db:"segment" json:"segment"`
	Address          string     `db:"address" json:"address"`
	Latitude         *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64   `db:"longitude" json:"longitude,omitempty"`
	ContactPerson    string     `db:"contact_person" json:"contactPerson"`
	WeChatID         string     `db:"wechat_id" json:"wechatId"`
	Phone            string     `db:"phone" json:"phone"`
	Email            *string    `db:"email" json:"email,omitempty"`
	Website          *string    `db:"website" json:"website,omitempty"`
	MOQ              *int       `db:"moq" json:"moq,omitempty"`
	LeadTimeDays     *int       `db:"lead_time_days" json:"leadTimeDays,omitempty"`
	MonthlyCapacity  *int       `db:"monthly_capacity" json:"monthlyCapacity,omitempty"`
	CertBSCI         bool       `db:"cert_bsci" json:"certBsci"`
	CertOekoTex      bool       `db:"cert_oeko_tex" json:"certOekoTex"`
	CertGOTS         bool       `db:"cert_gots" json:"certGots"`
	CertWRAP         bool       `db:"cert_wrap" json:"certWrap"`
	CertSedex        bool       `db:"cert_sedex" json:"certSedex"`
	InteractionLevel int        `db:"interaction_level" json:"interactionLevel"`
	VerifiedAt       *time.Time `db:"verified_at" json:"verifiedAt,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
}

// HasCoordinates reports whether both latitude and longitude are known.
func (f *Factory) HasCoordinates() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// DisplayName prefers the English legal name.
func (f *Factory) DisplayName() string {
	if f.NameEN != "" {
		return f.NameEN
	}
	return f.NameCN
}

// Category groups factories by product line.
type Category struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug"`
}

// Subscription holds a buyer's plan and unlock credits.
type Subscription struct {
	UserID           string    `db:"user_id" json:"userId"`
	Plan             string    `db:"plan" json:"plan"`
	Status           string    `db:"status" json:"status"`
	Credits          int       `db:"credits" json:"credits"`
	CurrentPeriodEnd time.Time `db:"current_period_end" json:"currentPeriodEnd"`
}

// Active reports whether the plan currently grants catalog access.
func (s *Subscription) Active(now time.Time) bool {
	return s.Status == SubscriptionActive && now.Before(s.CurrentPeriodEnd)
}

// Subscription statuses
const (
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionPastDue  = "past_due"
)
