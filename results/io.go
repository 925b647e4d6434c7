package results

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// WriteJSON writes the report to path, indented for human diffing.
func WriteJSON(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ReadJSON loads a report from path. Reports written under a different
// schema major version are rejected rather than half-decoded.
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	if major(report.Version) != major(SchemaVersion) {
		return nil, fmt.Errorf("report %s: schema version %q incompatible with %q",
			path, report.Version, SchemaVersion)
	}
	return &report, nil
}

// major extracts the leading component of a semantic version string.
func major(v string) string {
	if i := strings.IndexByte(v, '.'); i >= 0 {
		return v[:i]
	}
	return v
}
