package federalreserve

// ---------------------------------------------------------------------------
// NY Fed Markets API response types.
// ---------------------------------------------------------------------------

// nyfedRatesResponse wraps the ref rates (EFFR, SOFR, OBFR).
type nyfedRatesResponse struct {
	RefRates []nyfedRefRate `json:"refRates"`
}

// nyfedRefRate is a single ref rate entry from the NY Fed.
type nyfedRefRate struct {
	EffectiveDate       string  `json:"effectiveDate"`
	Type                string  `json:"type,omitempty"`
	PercentRate         float64 `json:"percentRate"`
	TargetRateTo        float64 `json:"targetRateTo,omitempty"`
	TargetRateFrom      float64 `json:"targetRateFrom,omitempty"`
	PercentPercentile1  float64 `json:"percentPercentile1,omitempty"`
	PercentPercentile25 float64 `json:"percentPercentile25,omitempty"`
	PercentPercentile75 float64 `json:"percentPercentile75,omitempty"`
	PercentPercentile99 float64 `json:"percentPercentile99,omitempty"`
	VolumeInBillions    float64 `json:"volumeInBillions,omitempty"`
	IntraDayLow         float64 `json:"intraDayLow,omitempty"`
	IntraDayHigh        float64 `json:"intraDayHigh,omitempty"`
	StdDeviation        float64 `json:"stdDeviation,omitempty"`
	RevisionIndicator   string  `json:"revisionIndicator,omitempty"`
}
