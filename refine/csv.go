package refine

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderbira/benchmark-specs/ltl"
)

// CSVConfig maps the columns of a refinement-node CSV export. The refinement
// column may hold either a single formula or a JSON array of formulas.
type CSVConfig struct {
	NodeIDColumn     string
	RefinementColumn string
	RealizableColumn string
}

// DefaultCSVConfig returns the column names the repair engine exports.
func DefaultCSVConfig() CSVConfig {
	return CSVConfig{
		NodeIDColumn:     "node_id",
		RefinementColumn: "refinement",
		RealizableColumn: "is_realizable",
	}
}

// ReadCSV parses refinement rows from r. Rows whose formulas fail to parse
// are skipped, not errored: the table is advisory input to a search, and a
// malformed row only narrows it.
func ReadCSV(r io.Reader, cfg CSVConfig) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("refinement csv: read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{cfg.NodeIDColumn, cfg.RefinementColumn, cfg.RealizableColumn} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("refinement csv: missing column %q", required)
		}
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("refinement csv: %w", err)
		}

		nodeID := record[col[cfg.NodeIDColumn]]
		realizable := strings.EqualFold(strings.TrimSpace(record[col[cfg.RealizableColumn]]), "true")

		for _, src := range splitRefinements(record[col[cfg.RefinementColumn]]) {
			f, err := parseRefinement(src)
			if err != nil {
				continue
			}
			rows = append(rows, Row{NodeID: nodeID, Formula: f, Realizable: realizable})
		}
	}
	return rows, nil
}

// ReadCSVFile parses refinement rows from a file using the default columns.
func ReadCSVFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("refinement csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, DefaultCSVConfig())
}

// splitRefinements interprets the refinement cell: a JSON array of formula
// strings, or a single bare formula. Empty cells yield nothing.
func splitRefinements(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "[]" {
		return nil
	}
	if strings.HasPrefix(cell, "[") {
		var list []string
		if err := json.Unmarshal([]byte(cell), &list); err != nil {
			return nil
		}
		return list
	}
	return []string{cell}
}

func parseRefinement(src string) (ltl.Formula, error) {
	return ltl.Parse(NormalizeOperators(src))
}
