package domain

import "time"

// Activity action tags recorded in the audit log.
const (
	ActivityLogin           = "login"
	ActivityLogout          = "logout"
	ActivityRegister        = "register"
	ActivityPasswordChange  = "password_change"
	ActivityRoleAssigned    = "role_assigned"
	ActivityUserDeactivated = "user_deactivated"
)

// ActivityRecord is an append-only audit entry. Normal flow never updates
// or deletes one; only the retention pruner removes old rows. The user_id
// reference is intentionally unconstrained so the trail outlives the user.
type ActivityRecord struct {
	ID        string
	UserID    string
	Action    string
	Details   string
	IPAddress string
	UserAgent string
	Metadata  map[string]string
	CreatedAt time.Time
}
