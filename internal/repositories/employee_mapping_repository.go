package repositories

import (
	"gorm.io/gorm"

	"backend/internal/models"
)

// EmployeeMappingRepository persists the explicit name->employee rows
// plus at most one fallback row per (user, company).
type EmployeeMappingRepository struct {
	db *gorm.DB
}

// NewEmployeeMappingRepository creates an EmployeeMappingRepository.
func NewEmployeeMappingRepository(db *gorm.DB) *EmployeeMappingRepository {
	return &EmployeeMappingRepository{db: db}
}

// List returns every mapping row (explicit and fallback) for (userID,
// companyID).
func (r *EmployeeMappingRepository) List(userID, companyID string) ([]models.EmployeeMapping, error) {
	var mappings []models.EmployeeMapping
	err := r.db.Where("user_id = ? AND company_id = ?", userID, companyID).Find(&mappings).Error
	return mappings, err
}

// FindExplicit returns the explicit row for ftzEmployeeName, if any.
func (r *EmployeeMappingRepository) FindExplicit(userID, companyID, ftzEmployeeName string) (*models.EmployeeMapping, error) {
	var mapping models.EmployeeMapping
	err := r.db.Where("user_id = ? AND company_id = ? AND ftz_employee_name = ? AND is_fallback = ?",
		userID, companyID, ftzEmployeeName, false).First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// FindFallback returns the single fallback row, if configured.
func (r *EmployeeMappingRepository) FindFallback(userID, companyID string) (*models.EmployeeMapping, error) {
	var mapping models.EmployeeMapping
	err := r.db.Where("user_id = ? AND company_id = ? AND is_fallback = ?", userID, companyID, true).First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// ReplaceAll deletes every existing row for (userID, companyID) and
// inserts the given set - the set plus at most one fallback row is
// always written as a whole via PUT /danlon/employee-mapping.
func (r *EmployeeMappingRepository) ReplaceAll(userID, companyID string, mappings []models.EmployeeMapping) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ? AND company_id = ?", userID, companyID).
			Delete(&models.EmployeeMapping{}).Error; err != nil {
			return err
		}
		for i := range mappings {
			mappings[i].UserID = userID
			mappings[i].CompanyID = companyID
			if err := tx.Create(&mappings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
