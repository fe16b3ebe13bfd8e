package model

// Role identifies the economic meaning of a column in a holdings export.
type Role string

// Column roles understood by the schema resolver.
const (
	RoleSymbol       Role = "symbol"
	RoleName         Role = "name"
	RoleCategory     Role = "category"
	RoleQuantity     Role = "quantity"
	RoleUnitPrice    Role = "unit_price"
	RoleCostBasis    Role = "cost_basis"
	RoleMarketValue  Role = "market_value"
	RoleUnrealizedPL Role = "unrealized_pl"
	RoleReturnRate   Role = "return_rate"
)

// Roles lists every known role in resolution order.
var Roles = []Role{
	RoleSymbol,
	RoleName,
	RoleCategory,
	RoleQuantity,
	RoleUnitPrice,
	RoleCostBasis,
	RoleMarketValue,
	RoleUnrealizedPL,
	RoleReturnRate,
}

// IsNumeric reports whether cells in this role are coerced to numbers.
func (r Role) IsNumeric() bool {
	switch r {
	case RoleQuantity, RoleUnitPrice, RoleCostBasis, RoleMarketValue, RoleUnrealizedPL, RoleReturnRate:
		return true
	}
	return false
}

// IsKnown reports whether r is one of the declared roles.
func (r Role) IsKnown() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// HoldingRecord is one row of a holdings table after normalization.
// MarketValue and CostBasis are always in Currency, the native currency of
// the source that produced the record; conversion happens during aggregation.
type HoldingRecord struct {
	SourceID     string  `json:"sourceId"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Currency     string  `json:"currency"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	CostBasis    float64 `json:"costBasis"`
	MarketValue  float64 `json:"marketValue"`
	UnrealizedPL float64 `json:"unrealizedPL"`
	ReturnRate   float64 `json:"returnRate"`
}
