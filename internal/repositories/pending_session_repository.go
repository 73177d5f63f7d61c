package repositories

import (
	"time"

	"gorm.io/gorm"

	"backend/internal/models"
)

// PendingSessionTTL is the lifetime of a pending OAuth2 exchange before
// it becomes eligible for lazy deletion.
const PendingSessionTTL = 15 * time.Minute

// PendingSessionRepository persists short-lived PendingSession rows
// between the callback and marketplace success steps of the OAuth2
// broker.
type PendingSessionRepository struct {
	db *gorm.DB
}

// NewPendingSessionRepository creates a PendingSessionRepository.
func NewPendingSessionRepository(db *gorm.DB) *PendingSessionRepository {
	return &PendingSessionRepository{db: db}
}

// Create inserts a new pending session row.
func (r *PendingSessionRepository) Create(session *models.PendingSession) error {
	return r.db.Create(session).Error
}

// FindBySessionID returns the pending session for sessionID, provided it
// has not expired; an expired row is deleted lazily and treated as not
// found.
func (r *PendingSessionRepository) FindBySessionID(sessionID string) (*models.PendingSession, error) {
	var session models.PendingSession
	if err := r.db.Where("session_id = ?", sessionID).First(&session).Error; err != nil {
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		r.db.Unscoped().Delete(&session)
		return nil, gorm.ErrRecordNotFound
	}
	return &session, nil
}

// FindByUserID returns the caller's most recent non-expired pending
// session, for the /danlon/pending poll endpoint.
func (r *PendingSessionRepository) FindByUserID(userID string) (*models.PendingSession, error) {
	var session models.PendingSession
	err := r.db.Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("created_at DESC").First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes the pending session row, called on successful
// completion of the exchange.
func (r *PendingSessionRepository) Delete(sessionID string) error {
	return r.db.Unscoped().Where("session_id = ?", sessionID).Delete(&models.PendingSession{}).Error
}
