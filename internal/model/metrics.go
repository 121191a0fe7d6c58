package model

// Field names a canonical submission field. The normalizer records which
// fields were supplied so that completeness can be scored after coercion.
type Field string

// Canonical submission fields.
const (
	FieldRevenue                 Field = "revenue"
	FieldEBITDA                  Field = "ebitda"
	FieldCashFlow                Field = "cashFlow"
	FieldAskingPrice             Field = "askingPrice"
	FieldRevenuePrevYear         Field = "revenuePrevYear"
	FieldRevenueTwoYearsAgo      Field = "revenueTwoYearsAgo"
	FieldEBITDAPrevYear          Field = "ebitdaPrevYear"
	FieldEBITDATwoYearsAgo       Field = "ebitdaTwoYearsAgo"
	FieldFFEValue                Field = "ffeValue"
	FieldInventoryValue          Field = "inventoryValue"
	FieldDebtAmount              Field = "debtAmount"
	FieldRecurringRevenue        Field = "recurringRevenue"
	FieldYearsInOperation        Field = "yearsInOperation"
	FieldEmployees               Field = "employees"
	FieldGrowthRate              Field = "growthRate"
	FieldAvgGrowthRate           Field = "avgGrowthRate"
	FieldProfitMargin            Field = "profitMargin"
	FieldClientConcentration     Field = "clientConcentration"
	FieldOwnerHoursPerWeek       Field = "ownerHoursPerWeek"
	FieldOwnerOperated           Field = "ownerOperated"
	FieldHasDocumentedSystems    Field = "hasDocumentedSystems"
	FieldHasTrainingMaterials    Field = "hasTrainingMaterials"
	FieldHasIntellectualProperty Field = "hasIntellectualProperty"
	FieldIndustry                Field = "industry"
	FieldLocation                Field = "location"
)

// DefaultIndustry is used when a submission carries no usable industry.
const DefaultIndustry = "Other"

// Metrics is the fully-populated, typed view of a submission. It is built
// once per request by the normalizer and treated as read-only afterwards.
type Metrics struct {
	Revenue            float64 `json:"revenue"`
	EBITDA             float64 `json:"ebitda"`
	CashFlow           float64 `json:"cashFlow"`
	AskingPrice        float64 `json:"askingPrice"`
	RevenuePrevYear    float64 `json:"revenuePrevYear"`
	RevenueTwoYearsAgo float64 `json:"revenueTwoYearsAgo"`
	EBITDAPrevYear     float64 `json:"ebitdaPrevYear"`
	EBITDATwoYearsAgo  float64 `json:"ebitdaTwoYearsAgo"`
	FFEValue           float64 `json:"ffeValue"`
	InventoryValue     float64 `json:"inventoryValue"`
	DebtAmount         float64 `json:"debtAmount"`
	RecurringRevenue   float64 `json:"recurringRevenue"`

	YearsInOperation    int     `json:"yearsInOperation"`
	Employees           int     `json:"employees"`
	GrowthRate          float64 `json:"growthRate"`
	AvgGrowthRate       float64 `json:"avgGrowthRate"`
	ProfitMargin        float64 `json:"profitMargin"`
	ClientConcentration float64 `json:"clientConcentration"`
	OwnerHoursPerWeek   float64 `json:"ownerHoursPerWeek"`

	OwnerOperated           bool `json:"ownerOperated"`
	HasDocumentedSystems    bool `json:"hasDocumentedSystems"`
	HasTrainingMaterials    bool `json:"hasTrainingMaterials"`
	HasIntellectualProperty bool `json:"hasIntellectualProperty"`

	Industry string `json:"industry"`
	Location string `json:"location"`

	// Supplied holds the fields that carried a non-empty value in the raw
	// submission, before defaults and derivations were applied.
	Supplied map[Field]bool `json:"-"`
}

// Has reports whether f was present and non-empty in the raw submission.
func (m *Metrics) Has(f Field) bool {
	return m.Supplied[f]
}

// HasThreeYearsRevenue reports whether both prior years of revenue were
// supplied. Current revenue is not checked.
func (m *Metrics) HasThreeYearsRevenue() bool {
	return m.Has(FieldRevenuePrevYear) && m.Has(FieldRevenueTwoYearsAgo)
}
