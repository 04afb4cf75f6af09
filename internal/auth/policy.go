package auth

import "erp-service/internal/models"

// Operations checked by the capability policy
const (
	OpCatalogRead    = "catalog:read"
	OpCatalogWrite   = "catalog:write"
	OpSalesRead      = "sales:read"
	OpSalesWrite     = "sales:write"
	OpPurchasesRead  = "purchases:read"
	OpPurchasesWrite = "purchases:write"
	OpStockRead      = "stock:read"
	OpStockWrite     = "stock:write"
	OpHRRead         = "hr:read"
	OpHRWrite        = "hr:write"
	OpLedgerRead     = "ledger:read"
	OpDashboardRead  = "dashboard:read"
)

var vendorOps = map[string]bool{
	OpCatalogRead:    true,
	OpCatalogWrite:   true,
	OpSalesRead:      true,
	OpSalesWrite:     true,
	OpPurchasesRead:  true,
	OpPurchasesWrite: true,
	OpStockRead:      true,
	OpStockWrite:     true,
	OpLedgerRead:     true,
	OpDashboardRead:  true,
}

var staffOps = map[string]bool{
	OpCatalogRead:   true,
	OpSalesRead:     true,
	OpPurchasesRead: true,
	OpStockRead:     true,
	OpLedgerRead:    true,
	OpDashboardRead: true,
}

// Allow reports whether the role may perform the operation. Admins may
// perform everything; vendors everything but HR; staff reads only.
func Allow(role, op string) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleVendor:
		return vendorOps[op]
	case models.RoleStaff:
		return staffOps[op]
	}
	return false
}
