package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"backend/internal/danlon"
	"backend/internal/errors"
	"backend/internal/models"
	"backend/internal/repositories"
	"backend/internal/sync"
)

// DanlonHandler drives C8/C12: the OAuth2 connection lifecycle and the
// pay-part sync.
type DanlonHandler struct {
	broker       *danlon.OAuthBroker
	graph        *danlon.GraphQLClient
	tokens       *repositories.OAuthTokenRepository
	pending      *repositories.PendingSessionRepository
	payCodes     *repositories.PayCodeMappingRepository
	employeeMaps *repositories.EmployeeMappingRepository
	orchestrator *sync.Orchestrator
	log          *logrus.Logger
}

// NewDanlonHandler creates a DanlonHandler.
func NewDanlonHandler(
	broker *danlon.OAuthBroker,
	graph *danlon.GraphQLClient,
	tokens *repositories.OAuthTokenRepository,
	pending *repositories.PendingSessionRepository,
	payCodes *repositories.PayCodeMappingRepository,
	employeeMaps *repositories.EmployeeMappingRepository,
	orchestrator *sync.Orchestrator,
	log *logrus.Logger,
) *DanlonHandler {
	return &DanlonHandler{
		broker:       broker,
		graph:        graph,
		tokens:       tokens,
		pending:      pending,
		payCodes:     payCodes,
		employeeMaps: employeeMaps,
		orchestrator: orchestrator,
		log:          log,
	}
}

// currentUserID resolves the caller's identity. This system has no login
// endpoints (see Non-goals): the frontend is trusted to supply it, as a
// query param where the spec lists one and as a header otherwise.
func currentUserID(c *gin.Context) string {
	if id := c.Query("user_id"); id != "" {
		return id
	}
	return c.GetHeader("X-User-Id")
}

// Connect handles GET /danlon/connect?return_uri=: step 1 of the OAuth2
// flow, redirecting the caller to the IdP.
func (h *DanlonHandler) Connect(c *gin.Context) {
	authURL := h.broker.AuthorizationURL(c.Query("return_uri"))
	c.Redirect(http.StatusFound, authURL)
}

// Callback handles GET /danlon/callback?code=&return_uri=: step 2,
// exchanging the authorization code for a temporary token pair and
// persisting a PendingSession before redirecting to the marketplace.
func (h *DanlonHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		respondError(c, errors.ErrInvalidInput.WithMessage("missing code"))
		return
	}
	returnURI := c.Query("return_uri")
	userID := currentUserID(c)

	redirectURI := h.broker.RedirectURIFor(returnURI)
	token, err := h.broker.ExchangeCodeForTempToken(c.Request.Context(), code, redirectURI)
	if err != nil {
		respondError(c, err)
		return
	}

	sessionID := uuid.NewString()
	selectCompanyURL := h.broker.SelectCompanyURL(token.AccessToken, returnURI)

	if err := h.pending.Create(&models.PendingSession{
		SessionID:        sessionID,
		UserID:           userID,
		SelectCompanyURL: selectCompanyURL,
		TempAccessToken:  token.AccessToken,
		TempRefreshToken: token.RefreshToken,
		ExpiresAt:        time.Now().Add(repositories.PendingSessionTTL),
	}); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrInternal))
		return
	}

	c.Redirect(http.StatusFound, selectCompanyURL)
}

// Success handles GET /danlon/success?code=&company_id=&return_uri=:
// step 4, finalizing the token exchange and persisting the OAuthToken.
func (h *DanlonHandler) Success(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		respondError(c, errors.ErrInvalidInput.WithMessage("missing code"))
		return
	}
	userID := currentUserID(c)

	token, err := h.broker.ExchangeCodeForFinalTokens(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	companyID, companyName, err := h.resolveCompany(c, token.AccessToken, c.Query("company_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.persistToken(userID, companyID, companyName, token); err != nil {
		respondError(c, err)
		return
	}

	returnURI := c.Query("return_uri")
	if returnURI == "" {
		returnURI = "/"
	}
	c.Redirect(http.StatusFound, returnURI)
}

// Pending handles GET /danlon/pending?user_id=: lets the frontend poll
// for the select-company URL while the manual-completion demo flow is
// in progress.
func (h *DanlonHandler) Pending(c *gin.Context) {
	userID := currentUserID(c)
	session, err := h.pending.FindByUserID(userID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"pending": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pending":            true,
		"select_company_url": session.SelectCompanyURL,
		"expires_at":         session.ExpiresAt,
	})
}

type completeRequest struct {
	Code         string `json:"code"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	CompanyID    string `json:"company_id"`
	CompanyName  string `json:"company_name"`
}

// Complete handles POST /danlon/complete: step 7, the manual-completion
// fallback for when the automatic marketplace redirect fails in the
// demo environment. Accepts either a code to exchange or an
// already-exchanged token triple.
func (h *DanlonHandler) Complete(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ErrInvalidInput.WithMessage(err.Error()))
		return
	}
	userID := currentUserID(c)

	var token danlon.TokenResponse
	if req.Code != "" {
		exchanged, err := h.broker.ExchangeCodeForFinalTokens(c.Request.Context(), req.Code)
		if err != nil {
			respondError(c, err)
			return
		}
		token = exchanged
	} else if req.AccessToken != "" && req.RefreshToken != "" {
		token = danlon.TokenResponse{AccessToken: req.AccessToken, RefreshToken: req.RefreshToken, ExpiresIn: 3600}
	} else {
		respondError(c, errors.ErrInvalidInput.WithMessage("expected code, or access_token and refresh_token"))
		return
	}

	companyID, companyName, err := h.resolveCompany(c, token.AccessToken, req.CompanyID)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.CompanyName != "" {
		companyName = req.CompanyName
	}

	if err := h.persistToken(userID, companyID, companyName, token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"connected": true, "company_id": companyID, "company_name": companyName})
}

// Disconnect handles POST /danlon/disconnect?user_id=&company_id=: step
// 6, revoking upstream and deleting the local token unconditionally.
func (h *DanlonHandler) Disconnect(c *gin.Context) {
	userID := currentUserID(c)
	companyID := c.Query("company_id")

	token, err := h.tokens.Find(userID, companyID)
	if err == nil {
		if revokeErr := h.broker.RevokeToken(c.Request.Context(), token.RefreshToken); revokeErr != nil {
			h.log.WithError(revokeErr).Warn("danlon revoke call failed, deleting local token anyway")
		}
	}

	if err := h.tokens.Delete(userID, companyID); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrInternal))
		return
	}
	c.JSON(http.StatusOK, gin.H{"disconnected": true})
}

// Status handles GET /danlon/status?user_id=&company_id=.
func (h *DanlonHandler) Status(c *gin.Context) {
	userID := currentUserID(c)
	companyID := c.Query("company_id")

	token, err := h.tokens.Find(userID, companyID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"connected": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"connected":    true,
		"company_id":   token.CompanyID,
		"company_name": token.CompanyName,
		"expires_at":   token.ExpiresAt,
		"created_at":   token.CreatedAt,
	})
}

// GetPayCodeMapping handles GET /danlon/paycode-mapping?user_id=&company_id=.
func (h *DanlonHandler) GetPayCodeMapping(c *gin.Context) {
	userID, companyID := currentUserID(c), c.Query("company_id")
	mapping, err := h.payCodes.Get(userID, companyID)
	if err != nil {
		respondError(c, errors.Wrap(err, errors.ErrInternal))
		return
	}
	c.JSON(http.StatusOK, mapping)
}

// PutPayCodeMapping handles PUT /danlon/paycode-mapping?user_id=&company_id=.
func (h *DanlonHandler) PutPayCodeMapping(c *gin.Context) {
	userID, companyID := currentUserID(c), c.Query("company_id")

	var body models.PayCodeMapping
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.ErrInvalidInput.WithMessage(err.Error()))
		return
	}
	body.UserID, body.CompanyID = userID, companyID

	if err := h.payCodes.Upsert(&body); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrInternal))
		return
	}
	c.JSON(http.StatusOK, body)
}

// GetEmployeeMapping handles GET /danlon/employee-mapping?user_id=&company_id=.
func (h *DanlonHandler) GetEmployeeMapping(c *gin.Context) {
	userID, companyID := currentUserID(c), c.Query("company_id")
	mappings, err := h.employeeMaps.List(userID, companyID)
	if err != nil {
		respondError(c, errors.Wrap(err, errors.ErrInternal))
		return
	}
	c.JSON(http.StatusOK, gin.H{"mappings": mappings})
}

// PutEmployeeMapping handles PUT /danlon/employee-mapping?user_id=&company_id=:
// replaces the whole explicit-rows-plus-fallback set in one call.
func (h *DanlonHandler) PutEmployeeMapping(c *gin.Context) {
	userID, companyID := currentUserID(c), c.Query("company_id")

	var body struct {
		Mappings []models.EmployeeMapping `json:"mappings"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.ErrInvalidInput.WithMessage(err.Error()))
		return
	}

	if err := h.employeeMaps.ReplaceAll(userID, companyID, body.Mappings); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrInternal))
		return
	}

	mappings, err := h.employeeMaps.List(userID, companyID)
	if err != nil {
		respondError(c, errors.Wrap(err, errors.ErrInternal))
		return
	}
	c.JSON(http.StatusOK, gin.H{"mappings": mappings})
}

// Sync handles POST /danlon/sync/{session_id}?user_id=&company_id=,
// driving C12 end to end.
func (h *DanlonHandler) Sync(c *gin.Context) {
	sessionID := c.Param("session_id")
	userID, companyID := currentUserID(c), c.Query("company_id")

	result, err := h.orchestrator.Sync(c.Request.Context(), sessionID, userID, companyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": gin.H{
			"created": result.Created,
			"skipped": result.Skipped,
			"errors":  len(result.SkippedItems),
		},
		"created_payparts": result.CreatedPayParts,
		"skipped_items":    result.SkippedItems,
		"unmatched_workers": result.UnmatchedWorkers,
	})
}

// resolveCompany resolves the (companyID, companyName) pair for the
// success/complete steps: a base64-decoded company_id query param when
// present, otherwise the live {current_company{id}} GraphQL query.
func (h *DanlonHandler) resolveCompany(c *gin.Context, accessToken, rawCompanyID string) (string, string, error) {
	if rawCompanyID != "" {
		companyID, err := danlon.DecodeCompanyID(rawCompanyID)
		if err != nil {
			return "", "", errors.ErrInvalidInput.WithMessage("malformed company_id: " + err.Error())
		}
		return companyID, "", nil
	}

	var result struct {
		CurrentCompany struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"current_company"`
	}
	if err := h.graph.Query(c.Request.Context(), accessToken, `{ current_company { id name } }`, nil, &result); err != nil {
		return "", "", err
	}
	if result.CurrentCompany.ID == "" {
		return "", "", errors.ErrUpstreamGraphQLError.WithMessage("current_company query returned no id")
	}
	return result.CurrentCompany.ID, result.CurrentCompany.Name, nil
}

func (h *DanlonHandler) persistToken(userID, companyID, companyName string, token danlon.TokenResponse) error {
	expiresIn := token.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 3600
	}
	err := h.tokens.Upsert(&models.OAuthToken{
		UserID:       userID,
		CompanyID:    companyID,
		CompanyName:  companyName,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresAt:    time.Now().Add(time.Duration(expiresIn) * time.Second),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal)
	}
	if pending, findErr := h.pending.FindByUserID(userID); findErr == nil {
		if delErr := h.pending.Delete(pending.SessionID); delErr != nil {
			h.log.WithError(delErr).Warn("failed to delete completed pending session")
		}
	}
	return nil
}
