package identity

import (
	"errors"
	"fmt"
	"time"

	"tenanthub/internal/domain"
	"tenanthub/internal/ids"

	"gorm.io/gorm"
)

// Store owns the user_accounts, user_profiles and user_passwords tables.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateAccount generates a fresh id, stamps EnabledFromDate and
// persists the account. Duplicate username/email surfaces as ErrConflict.
func (s *Store) CreateAccount(a *UserAccount) error {
	if a.ID == "" {
		a.ID = ids.New()
	}
	if a.EnabledFromDate == nil {
		now := time.Now()
		a.EnabledFromDate = &now
	}
	a.IsEnabled = true

	if err := s.db.Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &domain.ErrConflict{Message: "an account with that username or email already exists"}
		}
		return err
	}
	return nil
}

// FindByUsername returns (nil, nil) when no account matches; absence is
// a normal outcome for the auth flow, not an error.
func (s *Store) FindByUsername(username string) (*UserAccount, error) {
	var a UserAccount
	err := s.db.Where("username = ?", username).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) FindByID(id string) (*UserAccount, error) {
	var a UserAccount
	err := s.db.Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) FindByEmail(email string) (*UserAccount, error) {
	var a UserAccount
	err := s.db.Where("email = ?", email).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindOrCreateBySSO looks an account up by its external identity and
// fabricates one with a synthetic username/email when absent. Safe to
// call repeatedly for the same (provider, ssoID) pair.
func (s *Store) FindOrCreateBySSO(provider, ssoID string) (*UserAccount, error) {
	var a UserAccount
	err := s.db.Where("sso_provider = ? AND sso_id = ?", provider, ssoID).First(&a).Error
	if err == nil {
		return &a, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := fmt.Sprintf("%s@%s.sso", ssoID, provider)
	a = UserAccount{
		Username:    fmt.Sprintf("%s_%s", provider, ssoID),
		Email:       &email,
		SSOProvider: &provider,
		SSOID:       &ssoID,
	}
	if err := s.CreateAccount(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DisableAccount soft-disables an account; rows are never hard-deleted.
func (s *Store) DisableAccount(id string) error {
	now := time.Now()
	res := s.db.Model(&UserAccount{}).Where("id = ? AND is_enabled = ?", id, true).
		Updates(map[string]any{"is_enabled": false, "disabled_on_date": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &domain.ErrNotFound{Resource: "user account", ID: id}
	}
	return nil
}

func (s *Store) CreateProfile(p *UserProfile) error {
	return s.db.Create(p).Error
}

// ProfileFor returns (nil, nil) when the account has no profile row.
func (s *Store) ProfileFor(accountID string) (*UserProfile, error) {
	var p UserProfile
	err := s.db.Where("user_account_id = ?", accountID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProfileUpdate carries the mutable profile fields; nil means "leave as is".
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	AvatarURL *string
}

// UpdateProfile mutates the profile of accountID. The target must
// exist: a missing profile is ErrNotFound, unlike plain lookups.
func (s *Store) UpdateProfile(accountID string, upd ProfileUpdate) (*UserProfile, error) {
	var p UserProfile
	err := s.db.Where("user_account_id = ?", accountID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrNotFound{Resource: "user profile", ID: accountID}
	}
	if err != nil {
		return nil, err
	}

	if upd.FirstName != nil {
		p.FirstName = upd.FirstName
	}
	if upd.LastName != nil {
		p.LastName = upd.LastName
	}
	if upd.AvatarURL != nil {
		p.AvatarURL = upd.AvatarURL
	}
	if err := s.db.Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// PasswordFor returns (nil, nil) when the account has no credential row
// (SSO accounts never do).
func (s *Store) PasswordFor(accountID string) (*UserPassword, error) {
	var pw UserPassword
	err := s.db.Where("user_account_id = ?", accountID).First(&pw).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pw, nil
}

// SetPassword stores hash as the account's credential, creating the row
// on first use and rotating it in place afterwards.
func (s *Store) SetPassword(accountID, hash string) error {
	existing, err := s.PasswordFor(accountID)
	if err != nil {
		return err
	}
	now := time.Now()
	if existing == nil {
		return s.db.Create(&UserPassword{
			UserAccountID:   accountID,
			HashedPassword:  hash,
			IsActive:        true,
			EnabledFromDate: &now,
		}).Error
	}
	existing.HashedPassword = hash
	existing.IsActive = true
	existing.EnabledFromDate = &now
	existing.DisabledOnDate = nil
	return s.db.Save(existing).Error
}
