package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tenanthub/config"
	"tenanthub/database"
	routes "tenanthub/internal/app/http"
	"tenanthub/internal/auth"
	"tenanthub/internal/domain/billing"
	"tenanthub/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	log := zap.NewNop()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	r := gin.New()
	routes.Register(r, routes.Deps{
		DB:      db,
		Cfg:     &config.Config{},
		Log:     log,
		Metrics: observability.NewMetrics(),
		AuthSvc: auth.NewService(db, log, tokens),
	})
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerAndLogin(t *testing.T, r *gin.Engine, email string) (id, token string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	require.NotEmpty(t, body["access_token"])
	return body["userId"].(string), body["access_token"].(string)
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterLoginFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// same email again conflicts
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "alice@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// weak password rejected before the service runs
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "weak@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["access_token"])

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice@example.com", "password": "wrongpass1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginNeverIssuesTokenForSSOAccounts(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/sso-callback", "", gin.H{
		"provider": "google", "id": "sub-123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]any)
	username := user["username"].(string)

	// the username is discoverable through member listings; a guessed
	// password must not yield a session token for the SSO account
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username, "password": "literally-anything",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "access_token")
}

func TestMutatingRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/organizations", "", gin.H{"name": "Acme"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/organizations", "not-a-token", gin.H{"name": "Acme"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrganizationLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)

	_, adminToken := registerAndLogin(t, r, "owner@example.com")
	memberID, memberToken := registerAndLogin(t, r, "teammate@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/organizations", adminToken, gin.H{
		"name": "Acme", "description": "widgets",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orgID := decode(t, w)["id"].(string)

	// creator is admin and can rename
	w = doJSON(t, r, http.MethodPut, "/api/organizations/"+orgID, adminToken, gin.H{
		"name": "Acme Corp",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Acme Corp", decode(t, w)["name"])

	// an outsider cannot
	w = doJSON(t, r, http.MethodPut, "/api/organizations/"+orgID, memberToken, gin.H{
		"name": "Hijacked",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// admin adds the teammate as member
	w = doJSON(t, r, http.MethodPost, "/api/organizations/"+orgID+"/users", adminToken, gin.H{
		"userId": memberID, "role": "member",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// a plain member still cannot rename
	w = doJSON(t, r, http.MethodPut, "/api/organizations/"+orgID, memberToken, gin.H{
		"name": "Still Hijacked",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// unknown role rejected
	w = doJSON(t, r, http.MethodPost, "/api/organizations/"+orgID+"/users", adminToken, gin.H{
		"userId": memberID, "role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// membership listing includes both users
	w = doJSON(t, r, http.MethodGet, "/api/organizations/"+orgID+"/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var members []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &members))
	assert.Len(t, members, 2)

	// promote, then revoke
	w = doJSON(t, r, http.MethodPut, "/api/organizations/"+orgID+"/users/"+memberID+"/role", adminToken, gin.H{
		"role": "billing_admin",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/api/organizations/"+orgID+"/users/"+memberID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// revoked member no longer appears in the user's org list
	w = doJSON(t, r, http.MethodGet, "/api/organizations/user/"+memberID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	for _, org := range list {
		assert.NotEqual(t, orgID, org["id"])
	}

	// delete needs admin; the revoked member is refused
	w = doJSON(t, r, http.MethodDelete, "/api/organizations/"+orgID, memberToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/organizations/"+orgID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/organizations/"+orgID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileIsSelfService(t *testing.T) {
	r, _ := newTestRouter(t)

	aliceID, aliceToken := registerAndLogin(t, r, "alice@example.com")
	_, bobToken := registerAndLogin(t, r, "bob@example.com")

	w := doJSON(t, r, http.MethodPut, "/api/users/"+aliceID+"/profile", aliceToken, gin.H{
		"firstName": "Alice", "lastName": "Liddell",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// another user may not edit Alice's profile
	w = doJSON(t, r, http.MethodPut, "/api/users/"+aliceID+"/profile", bobToken, gin.H{
		"firstName": "Mallory",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/users/"+aliceID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	profile, ok := body["profile"].(map[string]any)
	require.True(t, ok, w.Body.String())
	assert.Equal(t, "Alice", profile["firstName"])
}

func TestSanitizeStripsMarkup(t *testing.T) {
	r, _ := newTestRouter(t)

	_, token := registerAndLogin(t, r, "owner@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/organizations", token, gin.H{
		"name": "<script>alert(1)</script>Acme",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Acme", decode(t, w)["name"])
}

func TestPlansEndpoint(t *testing.T) {
	r, db := newTestRouter(t)
	_, err := billing.NewStore(db).SeedPlans()
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/plans", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plans []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plans))
	require.Len(t, plans, 3)
	assert.Equal(t, "Free Plan", plans[0]["name"])
}

func TestFindByEmailReturnsSanitizedRow(t *testing.T) {
	r, _ := newTestRouter(t)

	id, _ := registerAndLogin(t, r, "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/users/find-by-email", "", gin.H{
		"email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, id, body["id"])
	assert.Equal(t, "alice@example.com", body["email"])
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(t, r, http.MethodPost, "/api/users/find-by-email", "", gin.H{
		"email": "missing@example.com",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
