package config

import (
	"fmt"
	"os"
)

// Validate checks the configuration for fatal problems. Called by Load
// before the config reaches any component, so downstream code can assume a
// valid config.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name must not be empty", ErrInvalidModelName)
	}
	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder_model must not be empty", ErrInvalidModelName)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %v not in [0, 2]", ErrInvalidTemperature, c.Temperature)
	}

	if c.RPCName == "" {
		return fmt.Errorf("%w: rpc_name must not be empty", ErrInvalidRPCName)
	}
	if c.TopK < 1 || c.MaxTopK < 1 || c.TopK > c.MaxTopK {
		return fmt.Errorf("%w: top_k=%d max_top_k=%d", ErrInvalidTopK, c.TopK, c.MaxTopK)
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("%w: %v not in [0, 1]", ErrInvalidThreshold, c.Threshold)
	}

	if c.MaxHistoryTurns < 0 {
		return fmt.Errorf("%w: max_history_turns=%d", ErrInvalidTopK, c.MaxHistoryTurns)
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("%w: postgres_host must not be empty", ErrInvalidPostgres)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidPostgres, c.PostgresPort)
	}
	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: postgres_db_name must not be empty", ErrInvalidPostgres)
	}

	return nil
}

// ValidateServe adds the checks that only matter for the HTTP server and
// the live model backends: Genkit reads GEMINI_API_KEY directly, so a
// missing key would otherwise surface as an opaque failure mid-request.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrMissingAPIKey)
	}
	return nil
}
