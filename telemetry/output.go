package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/aeronav/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir         string
	searchFile  *os.File
	statsFile   *os.File

	// Track if headers have been written
	searchHeaderWritten bool
	statsHeaderWritten  bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "searches.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating searches.csv: %w", err)
	}
	om.searchFile = f

	f, err = os.Create(filepath.Join(dir, "stats.csv"))
	if err != nil {
		om.searchFile.Close()
		return nil, fmt.Errorf("creating stats.csv: %w", err)
	}
	om.statsFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML next to the CSVs.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteSearch appends a per-search record to searches.csv.
func (om *OutputManager) WriteSearch(sample SearchSample) error {
	if om == nil {
		return nil
	}

	records := []SearchSample{sample}

	if !om.searchHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.searchFile); err != nil {
			return fmt.Errorf("writing search record: %w", err)
		}
		om.searchHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.searchFile); err != nil {
			return fmt.Errorf("writing search record: %w", err)
		}
	}

	return nil
}

// WriteStats appends a window stats record to stats.csv.
func (om *OutputManager) WriteStats(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}

	if !om.statsHeaderWritten {
		if err := gocsv.Marshal(records, om.statsFile); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
		om.statsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.statsFile); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}

	return nil
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{om.searchFile, om.statsFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
