/*
Package ratetable loads the versioned DBR overtime rate bands
(RATES_2025/2026/2027) from a master/band JSON file pair, the same
master-config-plus-per-type-file pattern the rest of this codebase uses
for other effective-dated configuration.
*/
package ratetable

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Loader reads the rate table master config and its band files from a
// directory (configs/rates by default) and resolves the correct band
// for any effective date.
type Loader struct {
	configDir string
}

// NewLoader creates a Loader rooted at configDir.
func NewLoader(configDir string) *Loader {
	return &Loader{configDir: configDir}
}

// resolvedBand pairs a band's parsed effective date with its rates, so
// Resolve can scan effective bands in date order.
type resolvedBand struct {
	effectiveFrom time.Time
	band          RateBand
}

// Table is the fully loaded, date-sorted set of rate bands.
type Table struct {
	bands []resolvedBand
}

// Load reads the master config and every band file it references.
func (l *Loader) Load() (*Table, error) {
	master, err := l.loadMasterConfig()
	if err != nil {
		return nil, err
	}
	return l.loadAllBands(master)
}

func (l *Loader) loadMasterConfig() (*MasterConfig, error) {
	var master MasterConfig
	if err := l.loadConfigFile("main.json", &master); err != nil {
		return nil, fmt.Errorf("loading rate table master config: %w", err)
	}
	return &master, nil
}

// bandRef pairs a master-config band reference with its parsed
// effective date, so bands can be sorted before raw values are filled -
// inheritance (below) only makes sense in effective-date order.
type bandRef struct {
	ref           BandRef
	effectiveFrom time.Time
}

func (l *Loader) loadAllBands(master *MasterConfig) (*Table, error) {
	refs := make([]bandRef, 0, len(master.Bands))
	for _, ref := range master.Bands {
		effectiveFrom, err := time.Parse("2006-01-02", ref.EffectiveFrom)
		if err != nil {
			return nil, fmt.Errorf("rate band %q has invalid effective_from: %w", ref.File, err)
		}
		refs = append(refs, bandRef{ref: ref, effectiveFrom: effectiveFrom})
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].effectiveFrom.Before(refs[j].effectiveFrom)
	})

	validator := NewValidator()
	table := &Table{}
	var prev *RateBand
	for _, r := range refs {
		var raw rawRateBand
		if err := l.loadConfigFile(r.ref.File, &raw); err != nil {
			return nil, fmt.Errorf("loading rate band %q: %w", r.ref.File, err)
		}

		band, err := validator.Fill(r.ref.File, raw, prev)
		if err != nil {
			return nil, err
		}

		table.bands = append(table.bands, resolvedBand{effectiveFrom: r.effectiveFrom, band: band})
		prev = &table.bands[len(table.bands)-1].band
	}

	if len(table.bands) == 0 {
		return nil, fmt.Errorf("rate table master config defines no bands")
	}

	return table, nil
}

// loadConfigFile reads and unmarshals one JSON file relative to the
// loader's config directory into target.
func (l *Loader) loadConfigFile(filename string, target interface{}) error {
	path := filepath.Join(l.configDir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// NewFixedTable builds a single-band Table effective from the zero time
// onward, for callers (tests, one-off tools) that need a Table without
// reading it from configs/rates.
func NewFixedTable(band RateBand) *Table {
	return &Table{bands: []resolvedBand{{effectiveFrom: time.Time{}, band: band}}}
}

// Resolve returns the rate band in effect on the given date: the latest
// band whose effective_from is on or before date. Bands are keyed ≥
// 2027-03-01 (RATES_2027), ≥ 2026-03-01 (RATES_2026), otherwise
// RATES_2025, per the effective-date banding in §4.4.
func (t *Table) Resolve(date time.Time) (RateBand, error) {
	var current *RateBand
	for i := range t.bands {
		if !t.bands[i].effectiveFrom.After(date) {
			current = &t.bands[i].band
		} else {
			break
		}
	}
	if current == nil {
		return RateBand{}, fmt.Errorf("no rate band effective on or before %s", date.Format("2006-01-02"))
	}
	return *current, nil
}
