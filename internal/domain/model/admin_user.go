package model

import "time"

// AdminUser maps a console identity to a role. Rows exist only for
// usernames on the configured allow-list; there is no provisioning as a
// side effect of signing in.
type AdminUser struct {
	ID        string
	Username  string
	Role      string
	CreatedAt time.Time
}

const (
	AdminRoleAdmin    = "admin"
	AdminRoleOperator = "operator"
)
