package duckdb

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds DuckDB-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Extensions to install and load (e.g., "httpfs", "json")
	Extensions []string `mapstructure:"extensions"`

	// Settings to apply at session level (e.g., memory_limit, threads)
	Settings map[string]string `mapstructure:"settings"`
}

// parseParams decodes the free-form params map into a typed Params struct.
func parseParams(params map[string]any) (*Params, error) {
	p := &Params{}
	if len(params) == 0 {
		return p, nil
	}
	if err := mapstructure.Decode(params, p); err != nil {
		return nil, fmt.Errorf("failed to parse duckdb params: %w", err)
	}
	return p, nil
}
