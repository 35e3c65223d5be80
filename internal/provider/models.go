package provider

// ModelType identifies a standard data model. Each ModelType maps to a
// specific data structure in pkg/models/, so callers can route a request
// to any provider that serves the model and get the same shape back.
type ModelType string

// --- Equity / Price ---
const (
	ModelEquityHistorical ModelType = "EquityHistorical"
	ModelEquityQuote      ModelType = "EquityQuote"
)

// --- Derivatives / Options ---
const (
	ModelOptionsChains ModelType = "OptionsChains"
)

// --- Fixed Income / Rates ---
const (
	ModelFederalFundsRate         ModelType = "FederalFundsRate"
	ModelSOFR                     ModelType = "SOFR"
	ModelOvernightBankFundingRate ModelType = "OvernightBankFundingRate"
	ModelTreasuryRates            ModelType = "TreasuryRates"
)

// --- News ---
const (
	ModelCompanyNews ModelType = "CompanyNews"
)

// AllModels returns all defined model types. Useful for iteration and validation.
func AllModels() []ModelType {
	return []ModelType{
		ModelEquityHistorical, ModelEquityQuote,
		ModelOptionsChains,
		ModelFederalFundsRate, ModelSOFR,
		ModelOvernightBankFundingRate, ModelTreasuryRates,
		ModelCompanyNews,
	}
}

// ModelCategory maps model types to their category for grouping.
func ModelCategory(m ModelType) string {
	switch m {
	case ModelEquityHistorical, ModelEquityQuote:
		return "Equity / Price"
	case ModelOptionsChains:
		return "Derivatives / Options"
	case ModelFederalFundsRate, ModelSOFR, ModelOvernightBankFundingRate:
		return "Fixed Income / Rates"
	case ModelTreasuryRates:
		return "Fixed Income / Government"
	case ModelCompanyNews:
		return "News"
	default:
		return "Other"
	}
}
