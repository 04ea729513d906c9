package solver

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid solver config")

// Method identifies which dynamic-programming algorithm produced a result.
type Method uint8

const (
	MethodValueIteration Method = iota
	MethodPolicyIteration
)

func (m Method) String() string {
	switch m {
	case MethodValueIteration:
		return "value-iteration"
	case MethodPolicyIteration:
		return "policy-iteration"
	default:
		return "unknown"
	}
}

// Title is the human readable heading used when presenting a result.
func (m Method) Title() string {
	switch m {
	case MethodValueIteration:
		return "Value Iteration"
	case MethodPolicyIteration:
		return "Policy Iteration"
	default:
		return "Unknown"
	}
}

// ParseMethod accepts the long form ("value-iteration") or the short form ("value").
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "value", "value-iteration", "vi":
		return MethodValueIteration, nil
	case "policy", "policy-iteration", "pi":
		return MethodPolicyIteration, nil
	default:
		return 0, fmt.Errorf("unknown method %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if m > MethodPolicyIteration {
		return nil, fmt.Errorf("cannot marshal method %d", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Config holds the parameters shared by both solvers.
type Config struct {
	// Gamma is the discount factor. Convergence relies on 0 <= Gamma < 1;
	// the sweep loops have no iteration cap.
	Gamma float64 `json:"gamma"`

	// Theta is the convergence threshold on the largest per-sweep change.
	Theta float64 `json:"theta"`

	// Seed drives the random initial policy of policy iteration. Zero picks a
	// time-based seed.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns gamma 0.9 and theta 1e-6 with a time-based seed.
func DefaultConfig() Config {
	return Config{
		Gamma: 0.9,
		Theta: 1e-6,
	}
}

// Validate checks the convergence preconditions.
func (c Config) Validate() error {
	if math.IsNaN(c.Gamma) || c.Gamma < 0 || c.Gamma >= 1 {
		return fmt.Errorf("%w: gamma must be in [0, 1), got %v", ErrInvalidConfig, c.Gamma)
	}
	if math.IsNaN(c.Theta) || c.Theta <= 0 {
		return fmt.Errorf("%w: theta must be > 0, got %v", ErrInvalidConfig, c.Theta)
	}
	return nil
}
