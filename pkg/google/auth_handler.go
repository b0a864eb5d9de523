package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/archsheet/archsheet/internal/config"
	"github.com/archsheet/archsheet/pkg/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type googleAuthRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

// GoogleAuth implements sign-in with Google: employees authenticate against
// Google and are matched to the firm directory by email.
type GoogleAuth struct {
	db          *pgxpool.Pool
	userService user.Service
	oauthConfig *oauth2.Config
}

func NewGoogleAuth(db *pgxpool.Pool, userService user.Service, cfg config.Application) *GoogleAuth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientId,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.Host + "/api/auth/google/callback",
		Scopes:       []string{goauth.UserinfoEmailScope, goauth.UserinfoProfileScope},
	}

	return &GoogleAuth{db: db, userService: userService, oauthConfig: oauthConfig}
}

// OAuthLogin starts the sign-in flow: stores a state nonce and returns the
// Google consent URL the client should redirect to.
func (g *GoogleAuth) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	stateNonce := uuid.New().String()
	finalUrl := r.URL.Query().Get("finalUrl")

	_, err := g.db.Exec(r.Context(), "INSERT INTO google_auth (nonce) VALUES ($1)", stateNonce)
	if err != nil {
		log.Errorf("failed to store Google auth nonce: %v", err)
		http.Error(w, "Failed to handle Google authentication", http.StatusInternalServerError)
		return
	}

	log.Tracef("Redirecting to Google auth URL with nonce: %s", stateNonce)
	u := g.oauthConfig.AuthCodeURL(finalUrl+"|"+stateNonce, oauth2.AccessTypeOffline)

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(googleAuthRedirect{RedirectUrl: u}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// OAuthCallback completes the flow: exchanges the code, looks up the Google
// account's email, matches (or creates) the employee record, and redirects
// back with the user uid the frontend will send as X-User-Id.
func (g *GoogleAuth) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	state := r.FormValue("state")

	parts := strings.SplitN(state, "|", 2)
	if len(parts) != 2 {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}
	finalUrl := parts[0]
	nonce := parts[1]

	var nonceExists bool
	err := g.db.QueryRow(r.Context(), "SELECT EXISTS(SELECT 1 FROM google_auth WHERE nonce = $1)", nonce).Scan(&nonceExists)
	if err != nil || !nonceExists {
		log.Errorf("unknown Google auth nonce: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	token, err := g.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		log.Errorf("unable to exchange code for token: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	userInfo, err := g.fetchUserInfo(r.Context(), token)
	if err != nil {
		log.Errorf("unable to fetch Google user info: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	matchedUser, err := g.userService.FindOrCreateByEmail(r.Context(), userInfo.Email, userInfo.GivenName, userInfo.FamilyName)
	if err != nil {
		log.Errorf("unable to match Google account %s to a user: %v", userInfo.Email, err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	_, err = g.db.Exec(r.Context(),
		"UPDATE google_auth SET user_id = $1, access_token = $2, refresh_token = $3, expiry = $4 WHERE nonce = $5",
		matchedUser.Id, token.AccessToken, token.RefreshToken, token.Expiry.Unix(), nonce)
	if err != nil {
		log.Errorf("unable to store Google auth token for nonce: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	log.Debugf("Google sign-in completed for user %s", matchedUser.Uid)
	http.Redirect(w, r, finalUrl+"?success=true&uid="+url.QueryEscape(matchedUser.Uid), http.StatusFound)
}

func (g *GoogleAuth) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*goauth.Userinfo, error) {
	service, err := goauth.NewService(ctx, option.WithTokenSource(g.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
	}
	userInfo, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	if userInfo.Email == "" {
		return nil, fmt.Errorf("Google account has no email")
	}
	return userInfo, nil
}
