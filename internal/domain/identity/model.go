package identity

import "time"

// UserAccount is the identity root. An account is either local (it has a
// UserPassword row) or SSO-backed (SSOProvider/SSOID are set); password
// validation branches on that.
type UserAccount struct {
	ID       string  `gorm:"primaryKey;size:10"`
	Username string  `gorm:"not null;uniqueIndex:idx_user_accounts_username"`
	Email    *string `gorm:"uniqueIndex:idx_user_accounts_email"`

	SSOProvider *string `gorm:"column:sso_provider"`
	SSOID       *string `gorm:"column:sso_id"`

	IsEnabled       bool `gorm:"default:true"`
	EnabledFromDate *time.Time
	DisabledOnDate  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Profile  *UserProfile  `gorm:"foreignKey:UserAccountID;constraint:OnDelete:CASCADE"`
	Password *UserPassword `gorm:"foreignKey:UserAccountID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsSSO reports whether the account authenticates through an external
// identity provider.
func (a *UserAccount) IsSSO() bool {
	return a.SSOProvider != nil && *a.SSOProvider != ""
}

// UserProfile holds the optional display attributes of an account,
// created (possibly empty) alongside it.
type UserProfile struct {
	ID            uint   `gorm:"primaryKey"`
	UserAccountID string `gorm:"size:10;not null;uniqueIndex:idx_user_profiles_account"`

	FirstName *string
	LastName  *string
	AvatarURL *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPassword is the credential row of a local account. The hash is
// never serialized and never leaves the auth service.
type UserPassword struct {
	ID            uint   `gorm:"primaryKey"`
	UserAccountID string `gorm:"size:10;not null;uniqueIndex:idx_user_passwords_account"`

	HashedPassword string `gorm:"not null" json:"-"`
	IsActive       bool   `gorm:"default:true"`

	EnabledFromDate *time.Time
	DisabledOnDate  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
