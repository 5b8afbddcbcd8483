package gifts

import "fmt"

// Schema names the 0-based column of every field the projector reads.
type Schema struct {
	Observation   int
	Status        int
	RUT           int
	Name          int
	GiftName      int
	Association   int
	PickupAddress int
}

// DefaultSchema is the layout of the distribution sheet (columns F, G, K, L,
// R, AC and AD).
func DefaultSchema() Schema {
	return Schema{
		Observation:   5,
		Status:        6,
		RUT:           10,
		Name:          11,
		GiftName:      17,
		Association:   28,
		PickupAddress: 29,
	}
}

// Validate rejects negative offsets.
func (s Schema) Validate() error {
	fields := []struct {
		name string
		idx  int
	}{
		{"observation", s.Observation},
		{"status", s.Status},
		{"rut", s.RUT},
		{"name", s.Name},
		{"gift name", s.GiftName},
		{"association", s.Association},
		{"pickup address", s.PickupAddress},
	}
	for _, f := range fields {
		if f.idx < 0 {
			return fmt.Errorf("schema: %s column must be non-negative, got %d", f.name, f.idx)
		}
	}
	return nil
}
