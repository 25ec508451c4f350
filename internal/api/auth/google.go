package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"tenanthub/config"
	"tenanthub/internal/api/respond"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleHandler drives the verified Google OIDC login flow. The
// resulting external identity feeds the same SSO login path as the
// sso-callback endpoint.
type GoogleHandler struct {
	*Handler
	Cfg *config.Config
}

func NewGoogleHandler(h *Handler, cfg *config.Config) *GoogleHandler {
	return &GoogleHandler{Handler: h, Cfg: cfg}
}

func (g *GoogleHandler) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     g.Cfg.GoogleClientID,
		ClientSecret: g.Cfg.GoogleClientSecret,
		RedirectURL:  g.Cfg.GoogleRedirectURL,
		Scopes: []string{
			"openid",
			"email",
			"profile",
		},
		Endpoint: google.Endpoint,
	}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func (g *GoogleHandler) Start(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	// state lives in an HttpOnly cookie for the round trip
	c.SetCookie("oauth_state", state, 300, "/", "", g.Cfg.SecureCookies, true)

	url := g.oauthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline)
	c.Redirect(http.StatusFound, url)
}

// GET /auth/google/callback
func (g *GoogleHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}

	cookieState, err := c.Cookie("oauth_state")
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}

	tok, err := g.oauthConfig().Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to exchange code"})
		return
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing id_token"})
		return
	}

	claims, err := g.verifyIDToken(c, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := g.Svc.SSOLogin("google", claims.Sub)
	if err != nil {
		respond.Error(c, g.Log, err)
		return
	}

	token, err := g.Svc.Tokens().Issue(user)
	if err != nil {
		respond.Error(c, g.Log, err)
		return
	}

	if g.Cfg.GoogleFrontendRedirect == "" {
		c.JSON(http.StatusOK, gin.H{"access_token": token, "user": user})
		return
	}
	c.Redirect(http.StatusFound, g.Cfg.GoogleFrontendRedirect+"?token="+token)
}

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func (g *GoogleHandler) verifyIDToken(c *gin.Context, rawIDToken string) (*googleIDClaims, error) {
	ctx := c.Request.Context()

	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, errors.New("failed to init google oidc provider")
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: g.Cfg.GoogleClientID})
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.New("invalid id_token")
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.New("failed to decode token claims")
	}
	if claims.Email == "" || claims.Sub == "" {
		return nil, errors.New("token missing required claims")
	}
	return &claims, nil
}
