package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

type rosterFile struct {
	Rosters []domain.Roster `yaml:"rosters"`
}

// LoadRosterTable reads the weekly schedule from a YAML file, or returns the
// built-in schedule when path is empty.
//
//	rosters:
//	  - day_index: 1
//	    title: SENIN MALAM SELASA
//	    members: [Bp Aris H01, Bp Asep H03]
func LoadRosterTable(path string) (*domain.RosterTable, error) {
	if path == "" {
		return domain.NewRosterTable(domain.DefaultRosters())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	return ParseRosterTable(data)
}

func ParseRosterTable(data []byte) (*domain.RosterTable, error) {
	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse roster file: %w", err)
	}
	return domain.NewRosterTable(f.Rosters)
}
