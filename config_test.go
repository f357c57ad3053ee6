package bandhu

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.setDefaults()

	require.InDelta(t, 0.5, cfg.DefaultMinScore, 1e-9)
	require.InDelta(t, 0.1, cfg.OverrideMinScore, 1e-9)
	require.Equal(t, 10, cfg.BatchMaxAssignments)
}

func TestConfigDefaultsKeepExplicitValues(t *testing.T) {
	cfg := Config{DefaultMinScore: 0.7, OverrideMinScore: 0.2, BatchMaxAssignments: 5}
	cfg.setDefaults()

	require.InDelta(t, 0.7, cfg.DefaultMinScore, 1e-9)
	require.InDelta(t, 0.2, cfg.OverrideMinScore, 1e-9)
	require.Equal(t, 5, cfg.BatchMaxAssignments)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid defaults",
			cfg:  Config{DefaultMinScore: 0.5, OverrideMinScore: 0.1, BatchMaxAssignments: 10},
		},
		{
			name:    "default min score above one",
			cfg:     Config{DefaultMinScore: 1.5, OverrideMinScore: 0.1, BatchMaxAssignments: 10},
			wantErr: true,
		},
		{
			name:    "override above default threshold",
			cfg:     Config{DefaultMinScore: 0.3, OverrideMinScore: 0.6, BatchMaxAssignments: 10},
			wantErr: true,
		},
		{
			name:    "negative batch cap",
			cfg:     Config{DefaultMinScore: 0.5, OverrideMinScore: 0.1, BatchMaxAssignments: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfigYAML(t *testing.T) {
	raw := `
defaultMinScore: 0.6
overrideMinScore: 0.15
batchMaxAssignments: 4
`
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(raw), &cfg))

	require.InDelta(t, 0.6, cfg.DefaultMinScore, 1e-9)
	require.InDelta(t, 0.15, cfg.OverrideMinScore, 1e-9)
	require.Equal(t, 4, cfg.BatchMaxAssignments)
	require.NoError(t, cfg.Validate())
}
