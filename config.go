package bandhu

import "fmt"

// Config is the configuration for the Coordinator.
type Config struct {
	// DefaultMinScore is the threshold applied when a caller passes a
	// non-positive minScore. An assignment auto-commits only when the match
	// score reaches the threshold.
	//
	// Default: 0.5
	DefaultMinScore float64 `yaml:"defaultMinScore"`

	// OverrideMinScore replaces the caller's threshold on the manual override
	// path, so a low-scoring but intentional match can still succeed.
	//
	// Default: 0.1
	OverrideMinScore float64 `yaml:"overrideMinScore"`

	// BatchMaxAssignments caps successful commits per batchAssign call when
	// the caller passes a non-positive limit.
	//
	// Default: 10
	BatchMaxAssignments int `yaml:"batchMaxAssignments"`
}

// setDefaults fills unset fields with production defaults.
func (c *Config) setDefaults() {
	if c.DefaultMinScore <= 0 {
		c.DefaultMinScore = 0.5
	}
	if c.OverrideMinScore <= 0 {
		c.OverrideMinScore = 0.1
	}
	if c.BatchMaxAssignments <= 0 {
		c.BatchMaxAssignments = 10
	}
}

// Validate checks the configuration for consistency.
//
// Returns:
//   - error: ErrInvalidConfig wrapped with the offending field, nil if valid
func (c *Config) Validate() error {
	if c.DefaultMinScore < 0 || c.DefaultMinScore > 1 {
		return fmt.Errorf("%w: defaultMinScore %v outside [0,1]", ErrInvalidConfig, c.DefaultMinScore)
	}
	if c.OverrideMinScore < 0 || c.OverrideMinScore > 1 {
		return fmt.Errorf("%w: overrideMinScore %v outside [0,1]", ErrInvalidConfig, c.OverrideMinScore)
	}
	if c.OverrideMinScore > c.DefaultMinScore {
		return fmt.Errorf("%w: overrideMinScore %v exceeds defaultMinScore %v",
			ErrInvalidConfig, c.OverrideMinScore, c.DefaultMinScore)
	}
	if c.BatchMaxAssignments < 0 {
		return fmt.Errorf("%w: batchMaxAssignments %d is negative", ErrInvalidConfig, c.BatchMaxAssignments)
	}

	return nil
}
