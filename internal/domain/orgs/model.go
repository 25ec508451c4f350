package orgs

import "time"

// Organization is the tenancy root. IsPersonal marks the default
// organization auto-created for an account at registration; it is set
// once at creation and never derived from the display name.
type Organization struct {
	ID   string `gorm:"primaryKey;size:10" json:"id"`
	Name string `gorm:"not null;uniqueIndex:idx_organizations_name" json:"name"`

	Description *string `json:"description"`
	WebsiteURL  *string `json:"websiteUrl"`
	Address     *string `json:"address"`

	IsPersonal bool `gorm:"default:false" json:"isPersonal"`
	IsEnabled  bool `gorm:"default:true" json:"isEnabled"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Membership links an account to an organization with a role. The
// composite key keeps at most one row per pair; revocation flips
// IsActive instead of deleting, so history survives.
type Membership struct {
	UserAccountID  string `gorm:"primaryKey;size:10" json:"userId"`
	OrganizationID string `gorm:"primaryKey;size:10" json:"organizationId"`

	Role     string `gorm:"not null" json:"role"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	DisabledOnDate *time.Time `json:"disabledOnDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Membership) TableName() string {
	return "user_organizations"
}

// Member is a flattened view of an active member of an organization,
// profile fields joined in.
type Member struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     *string    `json:"email"`
	FirstName *string    `json:"firstName"`
	LastName  *string    `json:"lastName"`
	AvatarURL *string    `json:"avatarUrl"`
	Role      string     `json:"role"`
	JoinedAt  time.Time  `json:"joinedAt"`
}
