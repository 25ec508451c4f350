package identity_test

import (
	"testing"

	"tenanthub/database"
	"tenanthub/internal/domain"
	"tenanthub/internal/domain/identity"
	"tenanthub/internal/ids"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestCreateAccount(t *testing.T) {
	store := identity.NewStore(newTestDB(t))

	email := "alice@example.com"
	acct := identity.UserAccount{Username: "alice@example.com", Email: &email}
	require.NoError(t, store.CreateAccount(&acct))

	assert.True(t, ids.Valid(acct.ID), "generated id should be a short opaque token")
	assert.True(t, acct.IsEnabled)
	require.NotNil(t, acct.EnabledFromDate)

	found, err := store.FindByUsername("alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, acct.ID, found.ID)
}

func TestCreateAccountDuplicateUsername(t *testing.T) {
	store := identity.NewStore(newTestDB(t))

	require.NoError(t, store.CreateAccount(&identity.UserAccount{Username: "bob@example.com"}))

	err := store.CreateAccount(&identity.UserAccount{Username: "bob@example.com"})
	require.Error(t, err)
	var conflict *domain.ErrConflict
	assert.ErrorAs(t, err, &conflict)
}

func TestFindByUsernameMissIsNotAnError(t *testing.T) {
	store := identity.NewStore(newTestDB(t))

	found, err := store.FindByUsername("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindOrCreateBySSO(t *testing.T) {
	db := newTestDB(t)
	store := identity.NewStore(db)

	first, err := store.FindOrCreateBySSO("google", "sub-123")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, first.IsSSO())
	assert.Equal(t, "google_sub-123", first.Username)

	second, err := store.FindOrCreateBySSO("google", "sub-123")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "second call must return the same account")

	var count int64
	require.NoError(t, db.Model(&identity.UserAccount{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	store := identity.NewStore(db)

	acct := identity.UserAccount{Username: "carol@example.com"}
	require.NoError(t, store.CreateAccount(&acct))
	require.NoError(t, store.CreateProfile(&identity.UserProfile{UserAccountID: acct.ID}))

	first := "Carol"
	profile, err := store.UpdateProfile(acct.ID, identity.ProfileUpdate{FirstName: &first})
	require.NoError(t, err)
	require.NotNil(t, profile.FirstName)
	assert.Equal(t, "Carol", *profile.FirstName)

	// untouched fields survive a partial update
	avatar := "https://example/avatar.png"
	profile, err = store.UpdateProfile(acct.ID, identity.ProfileUpdate{AvatarURL: &avatar})
	require.NoError(t, err)
	require.NotNil(t, profile.FirstName)
	assert.Equal(t, "Carol", *profile.FirstName)
}

func TestUpdateProfileMissingTarget(t *testing.T) {
	store := identity.NewStore(newTestDB(t))

	first := "Nobody"
	_, err := store.UpdateProfile("ZZZZ-ZZZZZ", identity.ProfileUpdate{FirstName: &first})
	var notFound *domain.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestSetPassword(t *testing.T) {
	store := identity.NewStore(newTestDB(t))

	acct := identity.UserAccount{Username: "dave@example.com"}
	require.NoError(t, store.CreateAccount(&acct))

	pw, err := store.PasswordFor(acct.ID)
	require.NoError(t, err)
	assert.Nil(t, pw, "fresh account has no credential row")

	require.NoError(t, store.SetPassword(acct.ID, "hash-one"))
	pw, err = store.PasswordFor(acct.ID)
	require.NoError(t, err)
	require.NotNil(t, pw)
	assert.Equal(t, "hash-one", pw.HashedPassword)
	assert.True(t, pw.IsActive)

	// rotation updates in place
	require.NoError(t, store.SetPassword(acct.ID, "hash-two"))
	rotated, err := store.PasswordFor(acct.ID)
	require.NoError(t, err)
	assert.Equal(t, pw.ID, rotated.ID)
	assert.Equal(t, "hash-two", rotated.HashedPassword)
}

func TestDisableAccount(t *testing.T) {
	store := identity.NewStore(newTestDB(t))

	acct := identity.UserAccount{Username: "erin@example.com"}
	require.NoError(t, store.CreateAccount(&acct))

	require.NoError(t, store.DisableAccount(acct.ID))

	disabled, err := store.FindByID(acct.ID)
	require.NoError(t, err)
	assert.False(t, disabled.IsEnabled)
	assert.NotNil(t, disabled.DisabledOnDate)

	var notFound *domain.ErrNotFound
	assert.ErrorAs(t, store.DisableAccount(acct.ID), &notFound, "second disable reports not found")
}
