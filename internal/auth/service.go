// Package auth orchestrates credential validation, registration and SSO
// login over the identity and organization stores.
package auth

import (
	"fmt"

	"tenanthub/internal/domain"
	"tenanthub/internal/domain/access"
	"tenanthub/internal/domain/identity"
	"tenanthub/internal/domain/orgs"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Identity is the sanitized view of an authenticated account returned
// to the boundary layer. It never carries the password hash.
type Identity struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	AvatarURL *string `json:"avatarUrl"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	tokens *TokenIssuer
}

func NewService(db *gorm.DB, log *zap.Logger, tokens *TokenIssuer) *Service {
	return &Service{db: db, log: log, tokens: tokens}
}

// Tokens exposes the issuer so the HTTP layer can mint access tokens
// after a successful login.
func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// ValidateCredentials checks username/password against the store. SSO
// accounts are rejected here: they hold no local credential, so the
// password path must never vouch for them — their session tokens come
// from the verified provider flow.
func (s *Service) ValidateCredentials(username, password string) (*Identity, error) {
	store := identity.NewStore(s.db)

	account, err := store.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid credentials"}
	}

	if account.IsSSO() {
		return nil, &domain.ErrUnauthorized{Message: "sign in with your identity provider"}
	}

	pw, err := store.PasswordFor(account.ID)
	if err != nil {
		return nil, err
	}
	if pw == nil || pw.HashedPassword == "" || !pw.IsActive {
		return nil, &domain.ErrUnauthorized{Message: "invalid credentials"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(pw.HashedPassword), []byte(password)); err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid credentials"}
	}

	return s.identityFor(store, account)
}

// Register creates the account, its credential (when a password was
// supplied), an empty profile, the personal organization and the admin
// membership — all in one transaction. A crash mid-way leaves nothing
// behind.
func (s *Service) Register(email, password string) (*Identity, *orgs.Organization, error) {
	existing, err := identity.NewStore(s.db).FindByUsername(email)
	if err != nil {
		return nil, nil, err
	}
	if existing == nil {
		existing, err = identity.NewStore(s.db).FindByEmail(email)
		if err != nil {
			return nil, nil, err
		}
	}
	if existing != nil {
		return nil, nil, &domain.ErrConflict{Message: "an account with that email already exists"}
	}

	var (
		account UserRow
		org     orgs.Organization
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		idStore := identity.NewStore(tx)
		orgStore := orgs.NewStore(tx)

		acct := identity.UserAccount{Username: email, Email: &email}
		if err := idStore.CreateAccount(&acct); err != nil {
			return err
		}

		if password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			if err := idStore.SetPassword(acct.ID, string(hash)); err != nil {
				return err
			}
		}

		if err := idStore.CreateProfile(&identity.UserProfile{UserAccountID: acct.ID}); err != nil {
			return err
		}

		org = orgs.Organization{
			Name:       PersonalOrgName(acct.Username),
			IsPersonal: true,
		}
		if err := orgStore.Create(&org); err != nil {
			return err
		}

		if _, err := orgStore.AddUser(acct.ID, org.ID, access.RoleAdmin); err != nil {
			return err
		}

		account = UserRow{ID: acct.ID, Username: acct.Username, Email: acct.Email}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("account registered",
		zap.String("account_id", account.ID),
		zap.String("organization_id", org.ID),
	)
	return &Identity{ID: account.ID, Username: account.Username, Email: account.Email}, &org, nil
}

// UserRow is the slice of account fields Register carries out of its
// transaction closure.
type UserRow struct {
	ID       string
	Username string
	Email    *string
}

// SSOLogin finds or creates the account for an external identity and
// backfills its profile, personal organization and admin membership.
// Calling it repeatedly for the same (provider, ssoID) is a no-op after
// the first call.
func (s *Service) SSOLogin(provider, ssoID string) (*Identity, error) {
	var out *Identity
	err := s.db.Transaction(func(tx *gorm.DB) error {
		idStore := identity.NewStore(tx)
		orgStore := orgs.NewStore(tx)

		account, err := idStore.FindOrCreateBySSO(provider, ssoID)
		if err != nil {
			return err
		}

		profile, err := idStore.ProfileFor(account.ID)
		if err != nil {
			return err
		}
		if profile == nil {
			if err := idStore.CreateProfile(&identity.UserProfile{UserAccountID: account.ID}); err != nil {
				return err
			}
		}

		personal, err := orgStore.FindPersonalForUser(account.ID)
		if err != nil {
			return err
		}
		if personal == nil {
			org := orgs.Organization{
				Name:       PersonalOrgName(account.Username),
				IsPersonal: true,
			}
			if err := orgStore.Create(&org); err != nil {
				return err
			}
			if _, err := orgStore.AddUser(account.ID, org.ID, access.RoleAdmin); err != nil {
				return err
			}
		}

		out, err = s.identityFor(idStore, account)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ChangePassword rotates the credential after re-validating the old
// secret. No password history is retained.
func (s *Service) ChangePassword(accountID, oldPlain, newPlain string) error {
	store := identity.NewStore(s.db)

	pw, err := store.PasswordFor(accountID)
	if err != nil {
		return err
	}
	if pw == nil || pw.HashedPassword == "" {
		return &domain.ErrUnauthorized{Message: "account has no password set"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(pw.HashedPassword), []byte(oldPlain)); err != nil {
		return &domain.ErrUnauthorized{Message: "old password is incorrect"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPlain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return store.SetPassword(accountID, string(hash))
}

// ForcePasswordReset starts a reset for targetID. Allowed for the user
// themself or for an admin of any organization the target belongs to.
// Delivery is simulated: the event is logged, no mail goes out.
func (s *Service) ForcePasswordReset(actingUserID, targetID string) error {
	store := identity.NewStore(s.db)
	target, err := store.FindByID(targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return &domain.ErrNotFound{Resource: "user account", ID: targetID}
	}

	if actingUserID != targetID {
		allowed, err := s.adminOverUser(actingUserID, targetID)
		if err != nil {
			return err
		}
		if !allowed {
			return &domain.ErrUnauthorized{Message: "not allowed to reset this user's password"}
		}
	}

	s.log.Info("password reset requested (simulated delivery)",
		zap.String("target_account_id", targetID),
		zap.String("acting_account_id", actingUserID),
	)
	return nil
}

// adminOverUser reports whether acting holds an active admin membership
// in any organization the target is an active member of.
func (s *Service) adminOverUser(actingUserID, targetID string) (bool, error) {
	targetOrgs, err := orgs.NewStore(s.db).ListForUser(targetID)
	if err != nil {
		return false, err
	}
	for _, org := range targetOrgs {
		ok, err := access.IsAuthorized(s.db, actingUserID, org.ID, access.RoleAdmin)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) identityFor(store *identity.Store, account *identity.UserAccount) (*Identity, error) {
	out := &Identity{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
	}
	profile, err := store.ProfileFor(account.ID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		out.FirstName = profile.FirstName
		out.LastName = profile.LastName
		out.AvatarURL = profile.AvatarURL
	}
	return out, nil
}

// PersonalOrgName derives the deterministic personal organization name
// for an account.
func PersonalOrgName(username string) string {
	return fmt.Sprintf("%s's Personal Org", username)
}
