package repositories

import (
	"gorm.io/gorm"

	"backend/internal/models"
)

// DefaultNormalCode, DefaultOvertimeCode, DefaultCalloutCode are applied
// when a company has never configured its own pay-code mapping.
const (
	DefaultNormalCode   = "T1"
	DefaultOvertimeCode = "T2"
	DefaultCalloutCode  = "T3"
)

// PayCodeMappingRepository persists the single per-(user, company)
// pay-code mapping row.
type PayCodeMappingRepository struct {
	db *gorm.DB
}

// NewPayCodeMappingRepository creates a PayCodeMappingRepository.
func NewPayCodeMappingRepository(db *gorm.DB) *PayCodeMappingRepository {
	return &PayCodeMappingRepository{db: db}
}

// Get returns the mapping for (userID, companyID), or the documented
// T1/T2/T3 defaults if none has been configured yet.
func (r *PayCodeMappingRepository) Get(userID, companyID string) (models.PayCodeMapping, error) {
	var mapping models.PayCodeMapping
	err := r.db.Where("user_id = ? AND company_id = ?", userID, companyID).First(&mapping).Error
	if err == gorm.ErrRecordNotFound {
		return models.PayCodeMapping{
			UserID:       userID,
			CompanyID:    companyID,
			NormalCode:   DefaultNormalCode,
			OvertimeCode: DefaultOvertimeCode,
			CalloutCode:  DefaultCalloutCode,
		}, nil
	}
	if err != nil {
		return models.PayCodeMapping{}, err
	}
	return mapping, nil
}

// Upsert creates or replaces the single mapping row for (userID,
// companyID).
func (r *PayCodeMappingRepository) Upsert(mapping *models.PayCodeMapping) error {
	var existing models.PayCodeMapping
	err := r.db.Where("user_id = ? AND company_id = ?", mapping.UserID, mapping.CompanyID).First(&existing).Error
	if err == nil {
		return r.db.Model(&models.PayCodeMapping{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"normal_code":   mapping.NormalCode,
			"overtime_code": mapping.OvertimeCode,
			"callout_code":  mapping.CalloutCode,
		}).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.Create(mapping).Error
}
