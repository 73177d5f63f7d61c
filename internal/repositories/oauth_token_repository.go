package repositories

import (
	"gorm.io/gorm"

	"backend/internal/models"
)

// OAuthTokenRepository persists Danløn OAuth2 tokens, one row per
// (user, company).
type OAuthTokenRepository struct {
	db *gorm.DB
}

// NewOAuthTokenRepository creates an OAuthTokenRepository.
func NewOAuthTokenRepository(db *gorm.DB) *OAuthTokenRepository {
	return &OAuthTokenRepository{db: db}
}

// Find returns the token row for (userID, companyID), or
// gorm.ErrRecordNotFound if none exists.
func (r *OAuthTokenRepository) Find(userID, companyID string) (*models.OAuthToken, error) {
	var token models.OAuthToken
	err := r.db.Where("user_id = ? AND company_id = ?", userID, companyID).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Upsert creates the (user, company) token row if absent, or updates the
// token fields in place otherwise - the read-then-upsert unit the
// refresh path relies on to avoid clobbering a concurrent refresh of
// the same key beyond last-writer-wins.
func (r *OAuthTokenRepository) Upsert(token *models.OAuthToken) error {
	existing, err := r.Find(token.UserID, token.CompanyID)
	if err == nil {
		return r.db.Model(&models.OAuthToken{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"access_token":  token.AccessToken,
			"refresh_token": token.RefreshToken,
			"token_type":    token.TokenType,
			"expires_at":    token.ExpiresAt,
			"company_name":  token.CompanyName,
			"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.Create(token).Error
}

// Delete unconditionally removes the token row for (userID, companyID).
// Called on revoke: local state must never claim a connection that has
// been revoked, even when the upstream revoke call itself failed.
func (r *OAuthTokenRepository) Delete(userID, companyID string) error {
	return r.db.Unscoped().Where("user_id = ? AND company_id = ?", userID, companyID).Delete(&models.OAuthToken{}).Error
}
