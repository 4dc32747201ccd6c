package domain

import "time"

// Tenant is an isolated set of books. Accounts, entries and documents never
// cross tenant boundaries.
type Tenant struct {
	TenantID  string    `json:"tenantID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
