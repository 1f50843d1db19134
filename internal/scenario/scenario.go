// Package scenario loads scenario descriptors and resolves them into runnable
// form. The descriptor file is the visible half of a scenario; the hidden
// mechanic is supplied out-of-band, keyed by scenario id, and never appears
// in the file.
package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/laundrobench/laundrobench/internal/econ"
	"github.com/laundrobench/laundrobench/internal/hidden"
)

// Descriptor is the on-disk scenario file format. Event tape days are keyed
// by stringified day numbers for JSON friendliness; Load converts them to
// integers.
type Descriptor struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Description     string              `json:"description,omitempty"`
	Seed            int64               `json:"seed"`
	ConfigOverrides map[string]any      `json:"config_overrides"`
	EventTape       map[string][]string `json:"event_tape,omitempty"`
}

// Scenario is a fully resolved scenario: typed config, integer-keyed event
// tape, and the attached hidden mechanic (nil for the control).
type Scenario struct {
	ID       string
	Name     string
	Seed     int64
	Config   econ.Config
	Events   map[int][]string
	Mechanic hidden.Mechanic
}

// Load reads and resolves a descriptor file, attaching the scenario's hidden
// mechanic from secrets. Loading fails closed: a file that cannot be parsed
// in full, an unknown config override, or a malformed tape day is an error,
// never a partial default.
func Load(path string, secrets Secrets) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(raw, secrets)
}

// Parse resolves a descriptor from raw JSON. See Load.
func Parse(raw []byte, secrets Secrets) (*Scenario, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var d Descriptor
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if d.ID == "" {
		return nil, fmt.Errorf("parse scenario: missing id")
	}

	cfg, err := econ.Resolve(d.ConfigOverrides)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", d.ID, err)
	}

	events := make(map[int][]string, len(d.EventTape))
	for key, lines := range d.EventTape {
		day, err := strconv.Atoi(key)
		if err != nil || day < 1 {
			return nil, fmt.Errorf("scenario %s: bad event tape day %q", d.ID, key)
		}
		events[day] = append([]string(nil), lines...)
	}

	return &Scenario{
		ID:       d.ID,
		Name:     d.Name,
		Seed:     d.Seed,
		Config:   cfg,
		Events:   events,
		Mechanic: secrets[d.ID],
	}, nil
}

// EventDays returns the tape's days in ascending order. Handy for reports.
func (s *Scenario) EventDays() []int {
	days := make([]int, 0, len(s.Events))
	for d := range s.Events {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}
