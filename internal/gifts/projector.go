package gifts

import (
	"fmt"

	"github.com/dcucoch/Gift-checking-App/internal/rowsource"
	id "github.com/dcucoch/Gift-checking-App/pkg/domain"
	dErrors "github.com/dcucoch/Gift-checking-App/pkg/domain-errors"
	"github.com/dcucoch/Gift-checking-App/pkg/platform/sentinel"
)

// Project selects the rows whose RUT matches rawRUT and builds the applicant
// view from them. Matching compares normalized forms and ignores checksum
// validity. Gifts keep sheet order.
func Project(rows []rowsource.Row, rawRUT string, schema Schema) (*ApplicantResult, error) {
	key := id.NormalizeRUT(rawRUT)
	if key == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "identifier required")
	}

	var matches []rowsource.Row
	for _, row := range rows {
		cell := row.Cell(schema.RUT)
		if cell != "" && id.NormalizeRUT(cell) == key {
			matches = append(matches, row)
		}
	}
	if len(matches) == 0 {
		return nil, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "not found: "+rawRUT)
	}

	first := matches[0]
	result := &ApplicantResult{
		Name:                    first.Cell(schema.Name),
		RUT:                     first.Cell(schema.RUT),
		NeighborhoodAssociation: orDefault(first.Cell(schema.Association), NotAvailable),
		PickupAddress:           orDefault(first.Cell(schema.PickupAddress), NotAvailable),
		Gifts:                   make([]GiftRecord, 0, len(matches)),
	}
	for i, row := range matches {
		result.Gifts = append(result.Gifts, GiftRecord{
			ID:          fmt.Sprintf("gift%d", i+1),
			Name:        orDefault(row.Cell(schema.GiftName), UnknownGift),
			Status:      ParseStatus(row.Cell(schema.Status)),
			Observation: orDefault(row.Cell(schema.Observation), NoObservations),
		})
	}
	return result, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
