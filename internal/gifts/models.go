package gifts

// Status is the display color of one gift's compliance outcome.
type Status string

const (
	StatusGreen  Status = "green"
	StatusRed    Status = "red"
	StatusYellow Status = "yellow"
	StatusBlank  Status = "blank"
)

// Markers shown when the sheet leaves a cell blank.
const (
	NotAvailable   = "No disponible"
	NoObservations = "Sin observaciones"
	UnknownGift    = "Desconocido"
)

// ParseStatus maps the compliance cell to a Status. Only the three exact
// sheet values are recognized; anything else, including blank, is StatusBlank.
func ParseStatus(cell string) Status {
	switch cell {
	case "Cumple":
		return StatusGreen
	case "No cumple":
		return StatusRed
	case "Cumple con observaciones":
		return StatusYellow
	default:
		return StatusBlank
	}
}

// GiftRecord is the status of one gift for one applicant.
type GiftRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      Status `json:"status"`
	Observation string `json:"observacion"`
}

// ApplicantResult is everything shown for one RUT. It is built per request.
type ApplicantResult struct {
	Name                    string       `json:"nombre"`
	RUT                     string       `json:"rut"`
	NeighborhoodAssociation string       `json:"juntaVecinos"`
	PickupAddress           string       `json:"direccionRetiro"`
	Gifts                   []GiftRecord `json:"gifts"`
}
