package billing

import (
	"errors"

	"tenanthub/internal/domain"

	"gorm.io/gorm"
)

// Store owns the plan catalog and the subscription, payment-profile and
// invoice tables.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ActivePlans returns the plans open for subscription, cheapest first.
func (s *Store) ActivePlans() ([]Plan, error) {
	var plans []Plan
	err := s.db.Where("is_active = ?", true).Order("price ASC").Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// CreateSubscription persists a subscription. The one-per-organization
// rule is checked up front and backed by the unique index.
func (s *Store) CreateSubscription(sub *Subscription) error {
	existing, err := s.SubscriptionForOrg(sub.OrganizationID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &domain.ErrConflict{Message: "organization already has a subscription"}
	}
	if err := s.db.Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &domain.ErrConflict{Message: "organization already has a subscription"}
		}
		return err
	}
	return nil
}

// SubscriptionForOrg returns (nil, nil) when the organization has no
// subscription. The plan is always loaded; price and interval are
// needed wherever a subscription is shown.
func (s *Store) SubscriptionForOrg(orgID string) (*Subscription, error) {
	var sub Subscription
	err := s.db.Preload("Plan").Where("organization_id = ?", orgID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) UpdateSubscriptionStatus(id, status string) error {
	res := s.db.Model(&Subscription{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &domain.ErrNotFound{Resource: "subscription", ID: id}
	}
	return nil
}

func (s *Store) CreatePaymentProfile(p *PaymentProfile) error {
	return s.db.Create(p).Error
}

func (s *Store) PaymentProfilesForUser(userID string) ([]PaymentProfile, error) {
	var profiles []PaymentProfile
	err := s.db.Where("user_account_id = ?", userID).Order("created_at ASC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// CreateInvoice persists an invoice together with its line items.
func (s *Store) CreateInvoice(inv *Invoice) error {
	return s.db.Create(inv).Error
}

func (s *Store) InvoiceByID(id string) (*Invoice, error) {
	var inv Invoice
	err := s.db.Preload("LineItems").Where("id = ?", id).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrNotFound{Resource: "invoice", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) InvoicesForOrg(orgID string) ([]Invoice, error) {
	var invoices []Invoice
	err := s.db.Preload("LineItems").
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// DeleteInvoice removes an invoice; its line items go with it.
func (s *Store) DeleteInvoice(id string) error {
	if err := s.db.Where("invoice_id = ?", id).Delete(&InvoiceLineItem{}).Error; err != nil {
		return err
	}
	res := s.db.Where("id = ?", id).Delete(&Invoice{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &domain.ErrNotFound{Resource: "invoice", ID: id}
	}
	return nil
}
