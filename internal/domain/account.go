package domain

import "time"

type AccountRole string

const (
	AccountRoleHR       AccountRole = "hr"
	AccountRoleEmployee AccountRole = "employee"
)

func (r AccountRole) Valid() bool {
	return r == AccountRoleHR || r == AccountRoleEmployee
}

// Account is a registered user. For HR accounts PackageLimit is the number of
// seats still available and CurrentEmployeeCount the seats already consumed;
// both are only changed by the entitlement ledger.
type Account struct {
	ID                   string      `json:"id"`
	Email                string      `json:"email"`
	Name                 string      `json:"name"`
	Role                 AccountRole `json:"role"`
	CompanyName          string      `json:"company_name"`
	DateOfBirth          string      `json:"date_of_birth,omitempty"`
	PackageLimit         int32       `json:"package_limit"`
	CurrentEmployeeCount int32       `json:"current_employee_count"`
	SubscriptionTier     string      `json:"subscription_tier"`
	CreatedAt            time.Time   `json:"created_at"`
}

// ProfileUpdate carries the fields an account holder may change on their own
// profile. A nil field is left unchanged.
type ProfileUpdate struct {
	Name        *string
	DateOfBirth *string
}

func (a *Account) IsHR() bool {
	return a != nil && a.Role == AccountRoleHR
}
