package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	IntervalMonth = "month"
	IntervalYear  = "year"
)

const (
	StatusTrialing   = "trialing"
	StatusActive     = "active"
	StatusPastDue    = "past_due"
	StatusCanceled   = "canceled"
	StatusIncomplete = "incomplete"
)

const (
	InvoiceDraft         = "draft"
	InvoiceOpen          = "open"
	InvoicePaid          = "paid"
	InvoiceUncollectible = "uncollectible"
	InvoiceVoid          = "void"
)

const (
	LineItemSubscription    = "subscription"
	LineItemUsage           = "usage"
	LineItemProrationCredit = "proration_credit"
	LineItemProrationDebit  = "proration_debit"
)

// Plan is a catalog billing tier. Plans are never updated once
// subscriptions reference them; retiring one means clearing IsActive
// and stamping EndDate.
type Plan struct {
	ID       string  `gorm:"primaryKey;size:36" json:"id"`
	Name     string  `gorm:"not null;uniqueIndex:idx_plans_name" json:"name"`
	Price    float64 `gorm:"not null;default:0" json:"price"`
	Currency string  `gorm:"not null;default:'USD'" json:"currency"`
	Interval string  `gorm:"not null;default:'month'" json:"interval"`

	Description *string `json:"description"`

	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Plan) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Subscription binds an organization to one plan over time. An
// organization has at most one subscription; the unique index on
// OrganizationID is the hard guarantee.
type Subscription struct {
	ID             string `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string `gorm:"size:10;not null;uniqueIndex:idx_subscriptions_org" json:"organizationId"`

	PlanID string `gorm:"size:36;not null" json:"planId"`
	Plan   *Plan  `gorm:"foreignKey:PlanID" json:"plan,omitempty"`

	PaymentProfileID *string `gorm:"size:36" json:"paymentProfileId"`

	Status             string    `gorm:"not null;default:'trialing'" json:"status"`
	CurrentPeriodStart time.Time `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time `json:"currentPeriodEnd"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Subscription) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// CardDetails is the non-sensitive display portion of a stored payment
// method. Raw card data never reaches this service.
type CardDetails struct {
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
}

// PaymentProfile belongs to a user account (not an organization) and
// stores a tokenized payment-method reference from the provider.
type PaymentProfile struct {
	ID            string `gorm:"primaryKey;size:36" json:"id"`
	UserAccountID string `gorm:"size:10;not null;index" json:"userId"`

	ProfileName             string `gorm:"not null" json:"profileName"`
	PaymentProvider         string `gorm:"not null;default:'stripe'" json:"paymentProvider"`
	ProviderPaymentMethodID string `gorm:"not null" json:"-"`

	Details *CardDetails `gorm:"serializer:json" json:"details"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *PaymentProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Invoice belongs to one organization and optionally the subscription
// it was raised for. Line items live and die with their invoice.
type Invoice struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string  `gorm:"size:10;not null;index" json:"organizationId"`
	SubscriptionID *string `gorm:"size:36" json:"subscriptionId"`

	Status     string  `gorm:"not null;default:'draft'" json:"status"`
	AmountDue  float64 `gorm:"not null" json:"amountDue"`
	AmountPaid float64 `gorm:"not null;default:0" json:"amountPaid"`

	DueDate time.Time  `json:"dueDate"`
	PaidAt  *time.Time `json:"paidAt"`

	TransactionID *string `json:"transactionId"`

	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lineItems"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Invoice) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type InvoiceLineItem struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	InvoiceID string `gorm:"size:36;not null;index" json:"invoiceId"`

	Type        string  `gorm:"not null;default:'subscription'" json:"type"`
	Description *string `json:"description"`
	Amount      float64 `gorm:"not null" json:"amount"`

	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`

	CreatedAt time.Time `json:"createdAt"`
}

func (li *InvoiceLineItem) BeforeCreate(*gorm.DB) error {
	if li.ID == "" {
		li.ID = uuid.NewString()
	}
	return nil
}
