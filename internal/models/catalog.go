package models

// CatalogProduct is one sellable SKU from the OEM product catalog.
// Reference data, loaded once per run and never mutated.
type CatalogProduct struct {
	ID                string  `json:"id" yaml:"id"`
	Name              string  `json:"name" yaml:"name"`
	Category          string  `json:"category" yaml:"category"`
	VoltageRating     string  `json:"voltage_rating" yaml:"voltage_rating"`
	ConductorMaterial string  `json:"conductor_material" yaml:"conductor_material"`
	InsulationType    string  `json:"insulation_type" yaml:"insulation_type"`
	CoreCount         string  `json:"core_count" yaml:"core_count"`
	Armoring          string  `json:"armoring" yaml:"armoring"`
	Standards         string  `json:"standards" yaml:"standards"`
	BISCertified      bool    `json:"bis_certified" yaml:"bis_certified"`
	UnitPriceINR      float64 `json:"unit_price_inr" yaml:"unit_price_inr"`
	MinOrderQtyMeters int     `json:"min_order_qty_meters" yaml:"min_order_qty_meters"`
	LeadTimeDays      int     `json:"lead_time_days" yaml:"lead_time_days"`
	WarrantyYears     int     `json:"warranty_years" yaml:"warranty_years"`
}

// TestService is one row of the testing-services price table.
type TestService struct {
	Code          string  `json:"test_code" yaml:"code"`
	Name          string  `json:"test_name" yaml:"name"`
	PriceINR      float64 `json:"price_inr" yaml:"price_inr"`
	DurationHours float64 `json:"duration_hours" yaml:"duration_hours"`
}
