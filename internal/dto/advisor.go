package dto

// AdviceRequest is a free-form question for the advisory generator.
type AdviceRequest struct {
	Message string `json:"message" binding:"required"`
}

// AdviceResponse wraps generated advisory text. Generated is false when the
// fixed unavailability fallback was substituted.
type AdviceResponse struct {
	Advice    string `json:"advice"`
	Generated bool   `json:"generated"`
}
