package request

// Money fields are bounded by the NUMERIC(12,2) columns that store them.
type PlaceBidRequest struct {
	Amount *float64 `json:"amount" validate:"required,gte=0,lte=9999999999.99"`
}
