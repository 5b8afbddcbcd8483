package handler

import (
	"net/url"
	"strings"

	dErrors "github.com/dcucoch/Gift-checking-App/pkg/domain-errors"
)

// maxIdentifierLength bounds what is accepted as an identifier. A formatted
// RUT is at most 12 characters.
const maxIdentifierLength = 64

// LookupRequest is the lookup input. RUT is the field name used by the
// existing web page and is accepted when ID is empty.
type LookupRequest struct {
	ID  string `json:"id"`
	RUT string `json:"rut"`

	identifier string
}

// LookupRequestFromQuery reads id (or rut) from query parameters.
func LookupRequestFromQuery(q url.Values) *LookupRequest {
	return &LookupRequest{ID: q.Get("id"), RUT: q.Get("rut")}
}

// Validate implements httputil.Validatable.
func (r *LookupRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.identifier = strings.TrimSpace(r.ID)
	if r.identifier == "" {
		r.identifier = strings.TrimSpace(r.RUT)
	}
	if r.identifier == "" {
		return dErrors.New(dErrors.CodeValidation, "identifier required")
	}
	if len(r.identifier) > maxIdentifierLength {
		return dErrors.New(dErrors.CodeValidation, "identifier too long")
	}
	return nil
}

// Identifier returns the validated, trimmed identifier.
func (r *LookupRequest) Identifier() string {
	return r.identifier
}
