package domain

import "github.com/shopspring/decimal"

// SubProductStatus is the catalog status of a sub-product.
type SubProductStatus string

const (
	SubProductActive   SubProductStatus = "ACTIVE"
	SubProductInactive SubProductStatus = "INACTIVE"
	SubProductRetired  SubProductStatus = "RETIRED"
)

// SubProduct is the read-only catalog entry an account is opened under.
// The catalog is owned by a collaborator system; the ledger only consumes
// interest and overdraft policy from it.
type SubProduct struct {
	ID              string
	Name            string
	GLNum           string
	InterestBearing bool
	// InterestRate is the effective annual rate as a percentage
	// (3.65 means 3.65% p.a.).
	InterestRate   decimal.Decimal
	AllowOverdraft bool
	Status         SubProductStatus
}

// Postable reports whether transactions may reference accounts of this
// sub-product.
func (p *SubProduct) Postable() bool {
	return p.Status == SubProductActive
}
