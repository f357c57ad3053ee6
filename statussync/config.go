package statussync

import "time"

// DefaultRefreshSubject is the NATS subject refresh signals are published on.
const DefaultRefreshSubject = "bandhu.sync.refresh"

// Config configures the status sync service.
type Config struct {
	// RefreshSubject is the NATS subject for broadcast refresh signals.
	RefreshSubject string `yaml:"refreshSubject"`

	// ReplayBackoffBase is the initial delay after a failed replay attempt.
	ReplayBackoffBase time.Duration `yaml:"replayBackoffBase"`

	// ReplayBackoffCap bounds the replay backoff delay.
	ReplayBackoffCap time.Duration `yaml:"replayBackoffCap"`

	// ReplayBackoffMultiplier controls backoff growth between attempts.
	ReplayBackoffMultiplier float64 `yaml:"replayBackoffMultiplier"`

	// ReplaySeed seeds the replay jitter RNG for deterministic tests.
	// Zero selects the package-level PRNG.
	ReplaySeed int64 `yaml:"-"`
}

// setDefaults fills unset fields with production defaults.
func (c *Config) setDefaults() {
	if c.RefreshSubject == "" {
		c.RefreshSubject = DefaultRefreshSubject
	}
	if c.ReplayBackoffBase <= 0 {
		c.ReplayBackoffBase = 100 * time.Millisecond
	}
	if c.ReplayBackoffCap <= 0 {
		c.ReplayBackoffCap = 5 * time.Second
	}
	if c.ReplayBackoffMultiplier < 1.0 {
		c.ReplayBackoffMultiplier = 2.0
	}
}
