package danlon

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"backend/internal/errors"
	"backend/internal/models"
	"backend/internal/repositories"
)

// refreshBuffer is how long before expiry get_valid_access_token
// proactively refreshes, per the documented contract.
const refreshBuffer = 60 * time.Second

// httpTimeout bounds every outbound call this broker makes.
const httpTimeout = 30 * time.Second

// TokenResponse is the subset of a token-endpoint JSON body this broker
// reads. RefreshToken/ExpiresIn are optional on a refresh response: the
// IdP may or may not rotate the refresh token or repeat the lifetime.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// OAuthBroker drives the three-party authorization-code flow against the
// Danløn IdP and marketplace, and owns access-token refresh.
type OAuthBroker struct {
	config Config
	client *http.Client
	tokens *repositories.OAuthTokenRepository
	graph  *GraphQLClient
	log    *logrus.Logger
}

// NewOAuthBroker wires a broker against its token store and a GraphQL
// client it can hand a caller-supplied token to (used to resolve the
// current company when the marketplace omits it).
func NewOAuthBroker(config Config, tokens *repositories.OAuthTokenRepository, graph *GraphQLClient, log *logrus.Logger) *OAuthBroker {
	return &OAuthBroker{
		config: config,
		client: &http.Client{Timeout: httpTimeout},
		tokens: tokens,
		graph:  graph,
		log:    log,
	}
}

// RedirectURIFor reconstructs the exact redirect_uri used to build a
// given authorization URL, so the callback's token exchange can present
// byte-identical value the IdP expects.
func (b *OAuthBroker) RedirectURIFor(returnURI string) string {
	if returnURI == "" {
		return b.config.RedirectURI
	}
	return b.config.RedirectURI + "?return_uri=" + url.QueryEscape(returnURI)
}

// AuthorizationURL builds the URL the caller is redirected to in step 1.
// When returnURI is non-empty it rides along on redirect_uri so it
// survives the round trip back through the callback.
func (b *OAuthBroker) AuthorizationURL(returnURI string) string {
	redirectURI := b.RedirectURIFor(returnURI)

	params := url.Values{
		"client_id":     {b.config.ClientID},
		"scope":         {b.config.Scope},
		"response_type": {"code"},
		"redirect_uri":  {redirectURI},
	}

	b.log.WithField("client_id", b.config.ClientID).Info("generated danlon authorization url")
	return b.config.AuthURL + "?" + params.Encode()
}

// ExchangeCodeForTempToken performs step 2: trading the authorization
// code for a temporary (access, refresh) pair. redirectURI must
// byte-equal the one used to build the authorization URL.
func (b *OAuthBroker) ExchangeCodeForTempToken(ctx context.Context, code, redirectURI string) (TokenResponse, error) {
	if b.config.ClientSecret == "" {
		return TokenResponse{}, errors.ErrTokenRefreshFailed.WithMessage("DANLON_CLIENT_SECRET is not configured")
	}

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {b.config.ClientID},
		"client_secret": {b.config.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
	}

	var token TokenResponse
	if err := b.postForm(ctx, b.config.TokenURL, form, &token); err != nil {
		return TokenResponse{}, err
	}
	if token.AccessToken == "" {
		return TokenResponse{}, errors.ErrUpstreamHTTPError.WithMessage("no access_token in token response")
	}
	return token, nil
}

// SelectCompanyURL builds the marketplace redirect for step 3, embedding
// the base64-encoded temporary access token.
func (b *OAuthBroker) SelectCompanyURL(tempAccessToken, returnURI string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(tempAccessToken))

	successURI := b.config.SuccessURI
	if returnURI != "" {
		successURI = successURI + "?return_uri=" + url.QueryEscape(returnURI)
	}

	params := url.Values{
		"token":      {encoded},
		"return_uri": {successURI},
	}

	return b.config.SelectCompanyURL + "?" + params.Encode()
}

// ExchangeCodeForFinalTokens performs step 4's code2token call, returning
// the final (access, refresh, expires_in) triple.
func (b *OAuthBroker) ExchangeCodeForFinalTokens(ctx context.Context, code string) (TokenResponse, error) {
	endpoint := strings.TrimSuffix(b.config.Code2TokenURL, "/") + "/" + url.PathEscape(code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return TokenResponse{}, errors.Wrap(err, errors.ErrInternal)
	}

	var token TokenResponse
	if err := b.do(req, &token); err != nil {
		return TokenResponse{}, err
	}
	if token.AccessToken == "" || token.RefreshToken == "" {
		return TokenResponse{}, errors.ErrUpstreamHTTPError.WithMessage("missing tokens in code2token response")
	}
	return token, nil
}

// RefreshAccessToken performs step 5.
func (b *OAuthBroker) RefreshAccessToken(ctx context.Context, refreshToken string) (TokenResponse, error) {
	if b.config.ClientSecret == "" {
		return TokenResponse{}, errors.ErrTokenRefreshFailed.WithMessage("DANLON_CLIENT_SECRET is not configured")
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {b.config.ClientID},
		"client_secret": {b.config.ClientSecret},
		"refresh_token": {refreshToken},
	}

	var token TokenResponse
	if err := b.postForm(ctx, b.config.TokenURL, form, &token); err != nil {
		return TokenResponse{}, errors.Wrap(err, errors.ErrTokenRefreshFailed)
	}
	if token.AccessToken == "" {
		return TokenResponse{}, errors.ErrTokenRefreshFailed.WithMessage("no access_token in refresh response")
	}
	return token, nil
}

// RevokeToken performs step 6 against the IdP's revoke endpoint. Callers
// must delete the local OAuthToken regardless of this call's outcome.
func (b *OAuthBroker) RevokeToken(ctx context.Context, refreshToken string) error {
	if b.config.ClientSecret == "" {
		return errors.ErrTokenRefreshFailed.WithMessage("DANLON_CLIENT_SECRET is not configured")
	}

	form := url.Values{
		"client_id":     {b.config.ClientID},
		"client_secret": {b.config.ClientSecret},
		"token":         {refreshToken},
	}

	return b.postForm(ctx, b.config.RevokeURL, form, nil)
}

// GetValidAccessToken returns the stored access token for (userID,
// companyID), refreshing it first if it is within refreshBuffer of
// expiry or already expired.
func (b *OAuthBroker) GetValidAccessToken(ctx context.Context, userID, companyID string) (string, error) {
	token, err := b.tokens.Find(userID, companyID)
	if err != nil {
		return "", errors.ErrNotConnected
	}

	if time.Now().Add(refreshBuffer).Before(token.ExpiresAt) {
		return token.AccessToken, nil
	}

	refreshed, err := b.RefreshAccessToken(ctx, token.RefreshToken)
	if err != nil {
		return "", err
	}

	newRefresh := refreshed.RefreshToken
	if newRefresh == "" {
		newRefresh = token.RefreshToken
	}
	expiresIn := refreshed.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 300
	}

	updated := models.OAuthToken{
		UserID:       userID,
		CompanyID:    companyID,
		CompanyName:  token.CompanyName,
		AccessToken:  refreshed.AccessToken,
		RefreshToken: newRefresh,
		TokenType:    refreshed.TokenType,
		ExpiresAt:    time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
	if err := b.tokens.Upsert(&updated); err != nil {
		b.log.WithError(err).Error("failed to persist refreshed danlon token")
	}

	return refreshed.AccessToken, nil
}

// DecodeCompanyID decodes the base64-encoded company_id the marketplace
// hands back on the success redirect.
func DecodeCompanyID(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// postForm POSTs an application/x-www-form-urlencoded body and decodes
// the JSON response into out, unless out is nil.
func (b *OAuthBroker) postForm(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req, out)
}

func (b *OAuthBroker) do(req *http.Request, out interface{}) error {
	resp, err := b.client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrUpstreamHTTPError)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, errors.ErrUpstreamHTTPError)
	}

	if resp.StatusCode != http.StatusOK {
		b.log.WithFields(logrus.Fields{"status": resp.StatusCode, "url": req.URL.String()}).Error("danlon upstream request failed")
		return errors.ErrUpstreamHTTPError.WithMessage(string(body))
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, errors.ErrUpstreamHTTPError)
	}
	return nil
}
