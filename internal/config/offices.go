package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MichaelAmon/was-project/internal/geofence"
)

type officesFile struct {
	Offices []geofence.Office `yaml:"offices"`
}

// LoadOffices reads the office list once at startup. The order in the file is
// the match order.
func LoadOffices(path string) ([]geofence.Office, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read offices file: %w", err)
	}

	var f officesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse offices file: %w", err)
	}
	if len(f.Offices) == 0 {
		return nil, fmt.Errorf("offices file %s defines no offices", path)
	}

	seen := make(map[string]struct{}, len(f.Offices))
	for _, o := range f.Offices {
		if o.ID == "" {
			return nil, fmt.Errorf("office with empty id in %s", path)
		}
		if _, dup := seen[o.ID]; dup {
			return nil, fmt.Errorf("duplicate office id %q in %s", o.ID, path)
		}
		seen[o.ID] = struct{}{}
		if o.RadiusKm <= 0 {
			return nil, fmt.Errorf("office %q must have a positive radius_km", o.ID)
		}
	}

	return f.Offices, nil
}
