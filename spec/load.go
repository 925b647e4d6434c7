package spec

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alexanderbira/benchmark-specs/ltl"
)

// fileSpec mirrors the on-disk JSON record
// {name, type, ins, outs, domains, goals} with formulas as LTL strings.
type fileSpec struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Ins     []string `json:"ins"`
	Outs    []string `json:"outs"`
	Domains []string `json:"domains"`
	Goals   []string `json:"goals"`
}

// Read parses and validates a JSON specification from r.
func Read(r io.Reader) (*Specification, error) {
	var raw fileSpec
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode spec: %w", err)
	}

	s := &Specification{
		Name: raw.Name,
		Type: Type(raw.Type),
		Ins:  raw.Ins,
		Outs: raw.Outs,
	}
	var err error
	if s.Domains, err = parseFormulas(raw.Domains); err != nil {
		return nil, fmt.Errorf("spec %q domains: %w", raw.Name, err)
	}
	if s.Goals, err = parseFormulas(raw.Goals); err != nil {
		return nil, fmt.Errorf("spec %q goals: %w", raw.Name, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile reads and validates a JSON specification file.
func LoadFile(path string) (*Specification, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spec: %w", err)
	}
	defer f.Close()
	return Read(f)
}

func parseFormulas(in []string) ([]ltl.Formula, error) {
	out := make([]ltl.Formula, 0, len(in))
	for i, src := range in {
		f, err := ltl.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("formula %d (%q): %w", i, src, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// FindSpecFiles walks dir and returns the paths of all JSON files that load
// as valid specifications, sorted for deterministic batch order. Files that
// fail to parse or validate are skipped, not errored.
func FindSpecFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		if _, err := LoadFile(path); err != nil {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
