package dto

// CreateTenantRequest registers a new tenant. Creating a tenant also seeds
// its system chart of accounts.
type CreateTenantRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// CreateAccountRequest adds an account to a tenant's chart of accounts.
type CreateAccountRequest struct {
	Code     string `json:"code" binding:"required,max=20"`
	Name     string `json:"name" binding:"required,max=255"`
	Type     string `json:"type" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	IsSystem bool   `json:"isSystem"`
}
