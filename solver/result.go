package solver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const resultFileVersion = 1

// Result is the outcome of one solver run.
type Result struct {
	Version     int       `json:"version"`
	RunID       string    `json:"run_id"`
	Method      Method    `json:"method"`
	GeneratedAt time.Time `json:"generated_at"`
	Gamma       float64   `json:"gamma"`
	Theta       float64   `json:"theta"`
	// Seed is the resolved initial-policy seed; zero for value iteration.
	Seed int64 `json:"seed,omitempty"`
	// Sweeps is the total number of state sweeps performed.
	Sweeps int `json:"sweeps"`
	// Iterations is the number of policy-iteration rounds, or the sweep
	// count for value iteration.
	Iterations int           `json:"iterations"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Values     *Values       `json:"values"`
	Policy     *Policy       `json:"policy"`
}

// Save writes the result as indented JSON, replacing path atomically.
func (r *Result) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create result dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create result temp: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close result temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist result: %w", err)
	}
	return nil
}

// LoadResult reads a result previously written by Save.
func LoadResult(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r Result
	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	if r.Version != resultFileVersion {
		return nil, fmt.Errorf("unsupported result version %d", r.Version)
	}
	if r.Values == nil || r.Policy == nil {
		return nil, errors.New("result is missing values or policy")
	}
	if r.Values.Rows() != r.Policy.Rows() || r.Values.Cols() != r.Policy.Cols() {
		return nil, fmt.Errorf("values %dx%d do not match policy %dx%d",
			r.Values.Rows(), r.Values.Cols(), r.Policy.Rows(), r.Policy.Cols())
	}
	return &r, nil
}
