package models

// Requests for engine HTTP endpoints. Defined in domain for consistency and reuse.

type ForecastRequest struct {
	Symbol     string  `query:"symbol" json:"symbol" validate:"required"`
	Horizon    int     `query:"horizon" json:"horizon" default:"20" validate:"gte=1,lte=126"`
	Confidence float64 `query:"conf" json:"conf" default:"0.9" validate:"gt=0,lt=1"`
}

type InsightRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Range  string `query:"range" json:"range" default:"1y" validate:"oneof=6m 1y 2y 5y"`
}

type AccuracyRequest struct {
	Symbol     string  `query:"symbol" json:"symbol" validate:"required"`
	Holdout    int     `query:"holdout" json:"holdout" default:"63" validate:"gte=1,lte=500"`
	Confidence float64 `query:"conf" json:"conf" default:"0.9" validate:"gt=0,lt=1"`
	Mode       string  `query:"mode" json:"mode" default:"holdout" validate:"oneof=holdout walkforward"`
	Scale      float64 `query:"scale" json:"scale" default:"1.0" validate:"gt=0,lte=5"`
	Band       string  `query:"band" json:"band" default:"parametric" validate:"oneof=parametric empirical"`
}

type SymbolSearchRequest struct {
	Query string `query:"q" json:"q" validate:"required,min=1"`
}
