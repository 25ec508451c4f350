package orgs

import (
	"errors"
	"strings"
	"time"

	"tenanthub/internal/domain"
	"tenanthub/internal/domain/identity"
	"tenanthub/internal/ids"

	"gorm.io/gorm"
)

// PersonalOrgSuffix is the naming convention for auto-created personal
// organizations. Kept only as a fallback for rows that predate the
// IsPersonal flag.
const PersonalOrgSuffix = "Personal Org"

// Store owns the organizations and user_organizations tables.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create generates a fresh id and persists the organization. A
// duplicate name surfaces as ErrConflict.
func (s *Store) Create(o *Organization) error {
	if o.ID == "" {
		o.ID = ids.New()
	}
	o.IsEnabled = true
	if err := s.db.Create(o).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &domain.ErrConflict{Message: "an organization with that name already exists"}
		}
		return err
	}
	return nil
}

func (s *Store) FindAll() ([]Organization, error) {
	var list []Organization
	if err := s.db.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindByID returns (nil, nil) when no organization matches.
func (s *Store) FindByID(id string) (*Organization, error) {
	var o Organization
	err := s.db.Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Update carries the mutable organization fields; nil means "leave as is".
type Update struct {
	Name        *string
	Description *string
	WebsiteURL  *string
	Address     *string
	IsEnabled   *bool
}

func (s *Store) Update(id string, upd Update) (*Organization, error) {
	o, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, &domain.ErrNotFound{Resource: "organization", ID: id}
	}

	if upd.Name != nil {
		o.Name = *upd.Name
	}
	if upd.Description != nil {
		o.Description = upd.Description
	}
	if upd.WebsiteURL != nil {
		o.WebsiteURL = upd.WebsiteURL
	}
	if upd.Address != nil {
		o.Address = upd.Address
	}
	if upd.IsEnabled != nil {
		o.IsEnabled = *upd.IsEnabled
	}
	if err := s.db.Save(o).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &domain.ErrConflict{Message: "an organization with that name already exists"}
		}
		return nil, err
	}
	return o, nil
}

// Delete removes the organization row. Absence is detected from the
// affected-row count, not a pre-read.
func (s *Store) Delete(id string) error {
	res := s.db.Where("id = ?", id).Delete(&Organization{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &domain.ErrNotFound{Resource: "organization", ID: id}
	}
	return nil
}

// ListForUser returns the organizations of all active memberships of a
// user.
func (s *Store) ListForUser(userID string) ([]Organization, error) {
	var list []Organization
	err := s.db.
		Joins("JOIN user_organizations uo ON uo.organization_id = organizations.id").
		Where("uo.user_account_id = ? AND uo.is_active = ?", userID, true).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// FindPersonalForUser returns the personal organization of a user: the
// organization of an active admin membership flagged IsPersonal. Rows
// created before the flag existed fall back to the name convention.
// Returns (nil, nil) when the user has none.
func (s *Store) FindPersonalForUser(userID string) (*Organization, error) {
	var candidates []Organization
	err := s.db.
		Joins("JOIN user_organizations uo ON uo.organization_id = organizations.id").
		Where("uo.user_account_id = ? AND uo.role = ? AND uo.is_active = ?", userID, "admin", true).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].IsPersonal {
			return &candidates[i], nil
		}
	}
	for i := range candidates {
		if strings.Contains(candidates[i].Name, PersonalOrgSuffix) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// ListUsers returns the active members of an organization with their
// profile fields flattened.
func (s *Store) ListUsers(orgID string) ([]Member, error) {
	var members []Member
	err := s.db.
		Table("user_organizations AS uo").
		Select("ua.id, ua.username, ua.email, up.first_name, up.last_name, up.avatar_url, uo.role, uo.created_at AS joined_at").
		Joins("JOIN user_accounts ua ON ua.id = uo.user_account_id").
		Joins("LEFT JOIN user_profiles up ON up.user_account_id = ua.id").
		Where("uo.organization_id = ? AND uo.is_active = ?", orgID, true).
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// AddUser attaches userID to orgID with role. An existing active row is
// rejected; an inactive row is reactivated in place with the new role,
// never duplicated.
func (s *Store) AddUser(userID, orgID, role string) (*Membership, error) {
	var account identity.UserAccount
	if err := s.db.Where("id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.ErrNotFound{Resource: "user account", ID: userID}
		}
		return nil, err
	}

	var existing Membership
	err := s.db.Where("user_account_id = ? AND organization_id = ?", userID, orgID).First(&existing).Error
	if err == nil {
		if existing.IsActive {
			return nil, &domain.ErrConflict{Message: "user is already an active member of this organization"}
		}
		existing.IsActive = true
		existing.Role = role
		existing.DisabledOnDate = nil
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m := Membership{
		UserAccountID:  userID,
		OrganizationID: orgID,
		Role:           role,
		IsActive:       true,
	}
	if err := s.db.Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// RemoveUser soft-revokes a membership: IsActive is flipped off and the
// revocation timestamped. The join row itself is never deleted.
func (s *Store) RemoveUser(userID, orgID string) error {
	now := time.Now()
	res := s.db.Model(&Membership{}).
		Where("user_account_id = ? AND organization_id = ? AND is_active = ?", userID, orgID, true).
		Updates(map[string]any{"is_active": false, "disabled_on_date": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &domain.ErrNotFound{Resource: "membership", ID: userID + "/" + orgID}
	}
	return nil
}

// UpdateMemberRole changes the role of an active membership.
func (s *Store) UpdateMemberRole(orgID, userID, role string) (*Membership, error) {
	var m Membership
	err := s.db.
		Where("organization_id = ? AND user_account_id = ? AND is_active = ?", orgID, userID, true).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrNotFound{Resource: "membership", ID: userID + "/" + orgID}
	}
	if err != nil {
		return nil, err
	}
	m.Role = role
	if err := s.db.Save(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
