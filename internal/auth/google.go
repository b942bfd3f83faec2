package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	sharedauth "ecotrack-backend/internal/shared/auth"
	"ecotrack-backend/internal/shared/server/respond"
	"ecotrack-backend/internal/shared/telemetry"
	"ecotrack-backend/internal/users"
)

// GoogleService handles Google OAuth flows.
type GoogleService struct {
	oauthConfig *oauth2.Config
	uiRedirect  string
	stateTTL    time.Duration
	stateStore  *stateStore
	users       *users.Service
	adminEmails []string
	orgEmails   []string
}

// RoleLists holds the lowercased emails granted elevated roles at sign-in.
type RoleLists struct {
	Admin        []string
	Organization []string
}

// NewGoogleService builds a GoogleService. userSvc may be nil, in which case
// identities are not persisted.
func NewGoogleService(clientID, clientSecret, redirectURL, uiRedirect string, userSvc *users.Service, roles RoleLists) *GoogleService {
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		uiRedirect:  uiRedirect,
		stateTTL:    5 * time.Minute,
		stateStore:  newStateStore(),
		users:       userSvc,
		adminEmails: roles.Admin,
		orgEmails:   roles.Organization,
	}
}

// RegisterRoutes attaches Google auth routes.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) start(c *gin.Context) {
	if s.oauthConfig.ClientID == "" || s.oauthConfig.ClientSecret == "" || s.oauthConfig.RedirectURL == "" {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}

	state := uuid.NewString()
	s.stateStore.put(state, time.Now().Add(s.stateTTL))

	url := s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusFound, url)
}

func (s *GoogleService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}

	if !s.stateStore.consume(state) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		telemetry.Warn("auth.exchange_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}

	userInfo, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		telemetry.Warn("auth.userinfo_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}

	if userInfo.Sub == "" {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "invalid user profile", nil)
		return
	}

	jwt, err := s.completeLogin(ctx, userInfo)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	redirectURL, err := appendToken(s.uiRedirect, jwt)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}

	c.Redirect(http.StatusFound, redirectURL)
}

// completeLogin persists the identity, resolves its role and signs the session token.
func (s *GoogleService) completeLogin(ctx context.Context, info googleUserInfo) (string, error) {
	// Elevated roles are keyed by email, so only a provider-verified address can earn one.
	role := sharedauth.RoleUser
	if info.VerifiedEmail {
		role = sharedauth.ResolveRole(info.Email, s.adminEmails, s.orgEmails)
	}
	claims := sharedauth.Claims{
		Sub:     "google:" + info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
		Role:    role,
	}

	if s.users != nil {
		if _, err := s.users.UpsertFromAuth(ctx, users.User{
			ID:      claims.Sub,
			Email:   info.Email,
			Name:    info.Name,
			Picture: info.Picture,
			Role:    role,
		}); err != nil {
			// Sign-in still succeeds; /me falls back to token claims.
			telemetry.Error("auth.user_upsert_failed", map[string]any{
				"user_id": claims.Sub,
				"error":   err,
			})
		}
	}

	token, err := sharedauth.SignJWT(claims)
	if err != nil {
		return "", err
	}
	telemetry.Info("auth.login", map[string]any{
		"user_id": claims.Sub,
		"role":    role,
	})
	return token, nil
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}

	// Some responses use "id" instead of "sub".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return info, nil
}

// appendToken places the token in the URL fragment as #token=<jwt>.
func appendToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	u.Fragment = "token=" + token
	return u.String(), nil
}
