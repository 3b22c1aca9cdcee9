package models

// Summary is the KPI payload for the summary endpoint.
type Summary struct {
	TotalOutlets         int                        `json:"totalOutlets"`
	TotalGallons         float64                    `json:"totalGallons"`
	TotalServices        int                        `json:"totalServices"`
	AvgGallonsPerService float64                    `json:"avgGallonsPerService"`
	HighRiskOutlets      int                        `json:"highRiskOutlets"`
	MonthlyGallons       map[string]float64         `json:"monthlyGallons"`
	MonthlyServices      map[string]int             `json:"monthlyServices"`
	TopRiskOutlets       []OutletSummary            `json:"topRiskOutlets"`
	LocationBreakdown    map[string]AggregateBucket `json:"locationBreakdown"`
	Diagnostics          Diagnostics                `json:"diagnostics"`
}

// Exploration is the filtered-exploration payload.
type Exploration struct {
	Records                  []DerivedRecord            `json:"filteredData"` // capped for response size
	OutletTypes              []string                   `json:"outletTypes"`
	Locations                []string                   `json:"locations"`
	TopOutletsByVolume       []OutletSummary            `json:"topOutletsByVolume"`
	OutletsByMissedCleanings []OutletSummary            `json:"outletsByMissedCleanings"`
	TrendsByArea             map[string]AggregateBucket `json:"trendsByArea"`
	TrendsByCategory         map[string]AggregateBucket `json:"trendsByCategory"`
}

// PredictionReport is the predictions endpoint payload.
type PredictionReport struct {
	ModelAccuracy     map[string]float64            `json:"modelAccuracy"`
	FeatureImportance map[string]map[string]float64 `json:"featureImportance"`
	Predictions       []OutletPrediction            `json:"predictions"`
}

// ChatbotAnswer is a canned keyword-matched response built from current
// aggregates.
type ChatbotAnswer struct {
	Answer          string         `json:"answer"`
	Insights        []string       `json:"insights,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`
	ActionItems     []string       `json:"actionItems,omitempty"`
	HighRiskAreas   map[string]int `json:"highRiskAreas,omitempty"`
}
