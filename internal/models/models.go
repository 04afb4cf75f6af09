package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products in the catalog
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Product represents a product in the catalog. OnHand is mutated exclusively
// through stock movements, never written directly by order creation.
type Product struct {
	ID               int64           `db:"id" json:"id"`
	Name             string          `db:"name" json:"name"`
	CategoryID       *int64          `db:"category_id" json:"category_id,omitempty"`
	Unit             string          `db:"unit" json:"unit"`
	UnitPrice        decimal.Decimal `db:"unit_price" json:"unit_price"`
	ReorderThreshold int             `db:"reorder_threshold" json:"reorder_threshold"`
	OnHand           int             `db:"on_hand" json:"on_hand"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// Client is the counterparty of a sale
type Client struct {
	ID      int64           `db:"id" json:"id"`
	Name    string          `db:"name" json:"name"`
	Phone   string          `db:"phone" json:"phone"`
	Email   string          `db:"email" json:"email"`
	Address string          `db:"address" json:"address"`
	Balance decimal.Decimal `db:"balance" json:"balance"`
}

// Supplier is the counterparty of a purchase
type Supplier struct {
	ID      int64           `db:"id" json:"id"`
	Name    string          `db:"name" json:"name"`
	Phone   string          `db:"phone" json:"phone"`
	Email   string          `db:"email" json:"email"`
	Address string          `db:"address" json:"address"`
	Balance decimal.Decimal `db:"balance" json:"balance"`
}

// Sale is an order header for outbound goods
type Sale struct {
	ID          int64           `db:"id" json:"id"`
	ClientID    *int64          `db:"client_id" json:"client_id,omitempty"`
	Total       decimal.Decimal `db:"total" json:"total"`
	AmountPaid  decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	PaymentMode string          `db:"payment_mode" json:"payment_mode"`
	Status      string          `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// SaleLine belongs to exactly one sale. ProductID is a weak reference: the
// line keeps its price/quantity snapshot if the product is deleted.
type SaleLine struct {
	ID        int64           `db:"id" json:"id"`
	SaleID    int64           `db:"sale_id" json:"sale_id"`
	ProductID *int64          `db:"product_id" json:"product_id,omitempty"`
	Quantity  decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	Discount  decimal.Decimal `db:"discount" json:"discount"`
}

// Purchase is an order header for inbound goods
type Purchase struct {
	ID          int64           `db:"id" json:"id"`
	SupplierID  *int64          `db:"supplier_id" json:"supplier_id,omitempty"`
	Total       decimal.Decimal `db:"total" json:"total"`
	AmountPaid  decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	PaymentMode string          `db:"payment_mode" json:"payment_mode"`
	Status      string          `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// PurchaseLine belongs to exactly one purchase
type PurchaseLine struct {
	ID         int64           `db:"id" json:"id"`
	PurchaseID int64           `db:"purchase_id" json:"purchase_id"`
	ProductID  *int64          `db:"product_id" json:"product_id,omitempty"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unit_price"`
}

// StockMovement is an immutable audit record of an on-hand quantity change.
// SourceID carries the originating order id, nil for manual adjustments.
type StockMovement struct {
	ID         int64           `db:"id" json:"id"`
	ProductID  int64           `db:"product_id" json:"product_id"`
	Direction  string          `db:"direction" json:"direction"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
	SourceKind string          `db:"source_kind" json:"source_kind"`
	SourceID   *int64          `db:"source_id" json:"source_id,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// Transaction is an immutable financial ledger entry
type Transaction struct {
	ID          int64           `db:"id" json:"id"`
	Direction   string          `db:"direction" json:"direction"`
	Module      string          `db:"module" json:"module"`
	ReferenceID int64           `db:"reference_id" json:"reference_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Employee represents a staff member
type Employee struct {
	ID         int64           `db:"id" json:"id"`
	Name       string          `db:"name" json:"name"`
	Position   string          `db:"position" json:"position"`
	BaseSalary decimal.Decimal `db:"base_salary" json:"base_salary"`
	HiredOn    time.Time       `db:"hired_on" json:"hired_on"`
	Active     bool            `db:"active" json:"active"`
}

// Salary is a payroll record for one employee and period (e.g. "2025-06")
type Salary struct {
	ID         int64           `db:"id" json:"id"`
	EmployeeID int64           `db:"employee_id" json:"employee_id"`
	Period     string          `db:"period" json:"period"`
	Gross      decimal.Decimal `db:"gross" json:"gross"`
	Net        decimal.Decimal `db:"net" json:"net"`
	AmountPaid decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	PaidAt     time.Time       `db:"paid_at" json:"paid_at"`
}

// User is a local account bridged from the external identity provider
type User struct {
	ID        int64     `db:"id" json:"id"`
	Subject   string    `db:"subject" json:"subject"`
	Email     string    `db:"email" json:"email"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Sale statuses
const (
	SaleStatusPending   = "pending"
	SaleStatusPaid      = "paid"
	SaleStatusCancelled = "cancelled"
)

// Purchase statuses
const (
	PurchaseStatusPending       = "pending"
	PurchaseStatusPaid          = "paid"
	PurchaseStatusPartiallyPaid = "partially_paid"
	PurchaseStatusCancelled     = "cancelled"
)

// Movement directions
const (
	DirectionInbound  = "in"
	DirectionOutbound = "out"
)

// Movement source kinds
const (
	SourceSale     = "sale"
	SourcePurchase = "purchase"
	SourceManual   = "manual"
)

// Ledger directions
const (
	TxnRevenue = "revenue"
	TxnExpense = "expense"
)

// Ledger modules
const (
	ModuleSales     = "sales"
	ModulePurchases = "purchases"
	ModulePayroll   = "payroll"
)

// User roles
const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"
	RoleStaff  = "staff"
)

// ValidSaleStatus reports whether s is a legal sale status
func ValidSaleStatus(s string) bool {
	switch s {
	case SaleStatusPending, SaleStatusPaid, SaleStatusCancelled:
		return true
	}
	return false
}

// ValidPurchaseStatus reports whether s is a legal purchase status
func ValidPurchaseStatus(s string) bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusPaid, PurchaseStatusPartiallyPaid, PurchaseStatusCancelled:
		return true
	}
	return false
}
