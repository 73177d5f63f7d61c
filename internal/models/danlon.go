package models

import "time"

// OAuthToken holds the current Danløn OAuth2 tokens for one connected
// (user, company) pair. There is at most one row per key; refreshing
// overwrites AccessToken/RefreshToken/ExpiresAt in place, with
// ExpiresAt advancing monotonically.
type OAuthToken struct {
	BaseModel

	UserID       string    `gorm:"index:idx_oauth_user_company,unique;not null" json:"user_id"`
	CompanyID    string    `gorm:"index:idx_oauth_user_company,unique;not null" json:"company_id"`
	CompanyName  string    `json:"company_name"`
	AccessToken  string    `gorm:"not null" json:"-"`
	RefreshToken string    `gorm:"not null" json:"-"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// PendingSession tracks one in-flight OAuth2 authorization-code exchange
// between the callback and the marketplace company-select success
// handler. Rows are short-lived (15-minute TTL) and are deleted on
// successful completion or lazily on expiry.
type PendingSession struct {
	BaseModel

	SessionID          string    `gorm:"uniqueIndex;not null" json:"session_id"`
	UserID             string    `gorm:"index;not null" json:"user_id"`
	SelectCompanyURL   string    `json:"select_company_url"`
	TempAccessToken    string    `json:"-"`
	TempRefreshToken   string    `json:"-"`
	ExpiresAt          time.Time `json:"expires_at"`
}

// PayCodeMapping is the single per-(user, company) row mapping the
// three derived pay categories to upstream Danløn pay-part codes.
type PayCodeMapping struct {
	BaseModel

	UserID       string `gorm:"index:idx_paycode_user_company,unique;not null" json:"user_id"`
	CompanyID    string `gorm:"index:idx_paycode_user_company,unique;not null" json:"company_id"`
	NormalCode   string `gorm:"not null;default:T1" json:"normal_code"`
	OvertimeCode string `gorm:"not null;default:T2" json:"overtime_code"`
	CalloutCode  string `gorm:"not null;default:T3" json:"callout_code"`
}

// EmployeeMapping is one row mapping a worker name (as it appears in
// uploaded time registrations) to a Danløn employee id, or - when
// FtzEmployeeName is empty and IsFallback is true - the single fallback
// row used when no other resolution stage matches.
type EmployeeMapping struct {
	BaseModel

	UserID            string `gorm:"index:idx_employee_user_company;not null" json:"user_id"`
	CompanyID         string `gorm:"index:idx_employee_user_company;not null" json:"company_id"`
	FtzEmployeeName   string `json:"ftz_employee_name,omitempty"`
	DanlonEmployeeID  string `gorm:"not null" json:"danlon_employee_id"`
	DanlonEmployeeName string `json:"danlon_employee_name"`
	IsFallback        bool   `gorm:"not null;default:false" json:"is_fallback"`
}
