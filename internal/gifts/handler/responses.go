package handler

import (
	id "github.com/dcucoch/Gift-checking-App/pkg/domain"
)

// RUTCheckResponse mirrors what the lookup form shows while a RUT is typed.
type RUTCheckResponse struct {
	Input              string `json:"input"`
	Normalized         string `json:"normalized"`
	Formatted          string `json:"formatted"`
	Valid              bool   `json:"valid"`
	ExpectedCheckDigit string `json:"expectedCheckDigit,omitempty"`
}

// NewRUTCheckResponse evaluates input. ExpectedCheckDigit is set whenever the
// body part is well formed, so a wrong digit can be corrected.
func NewRUTCheckResponse(input string) RUTCheckResponse {
	normalized := id.NormalizeRUT(input)
	resp := RUTCheckResponse{
		Input:      input,
		Normalized: normalized,
		Formatted:  id.FormatRUT(input),
		Valid:      id.ValidateRUT(input),
	}
	if len(normalized) >= 2 {
		if check, err := id.ComputeCheckDigit(normalized[:len(normalized)-1]); err == nil {
			resp.ExpectedCheckDigit = string(check)
		}
	}
	return resp
}
