package engine

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"nbcheck/internal/diag"
	"nbcheck/internal/graph"
	"nbcheck/internal/rules"
)

// Config is the on-disk check configuration (nbcheck.toml).
//
//	[rules]
//	general-formatting = false
//
//	[early_stopping]
//	stop_on_breaking = true
//	threshold = "runtime"
//	max_diagnostics = 50
type Config struct {
	// Rules toggles individual rules by code. Absent codes stay enabled.
	Rules         map[string]bool   `toml:"rules"`
	EarlyStopping EarlyStoppingToml `toml:"early_stopping"`
}

// EarlyStoppingToml mirrors EarlyStopping with a keyword threshold.
type EarlyStoppingToml struct {
	StopOnBreaking bool   `toml:"stop_on_breaking"`
	StopOnRuntime  bool   `toml:"stop_on_runtime"`
	Threshold      string `toml:"threshold"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

// LoadConfig reads a toml configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %q: %w", path, err)
	}
	return cfg, nil
}

// earlyStopping converts the toml form, validating the threshold keyword.
func (c Config) earlyStopping() (EarlyStopping, error) {
	es := EarlyStopping{
		StopOnBreaking: c.EarlyStopping.StopOnBreaking,
		StopOnRuntime:  c.EarlyStopping.StopOnRuntime,
		MaxDiagnostics: c.EarlyStopping.MaxDiagnostics,
	}
	if c.EarlyStopping.Threshold != "" {
		sev, ok := diag.ParseSeverity(c.EarlyStopping.Threshold)
		if !ok {
			return EarlyStopping{}, fmt.Errorf(
				"unknown early_stopping threshold %q (want breaking|runtime|formatting)",
				c.EarlyStopping.Threshold)
		}
		es.Threshold = &sev
	}
	return es, nil
}

// FromConfig builds an engine with the built-in catalog filtered and the
// early-stopping policy taken from cfg.
func FromConfig(cfg Config) (*Engine, error) {
	stop, err := cfg.earlyStopping()
	if err != nil {
		return nil, err
	}
	catalog := rules.Catalog()
	known := make(map[string]struct{}, len(catalog))
	for _, r := range catalog {
		known[r.Meta().Code] = struct{}{}
	}
	for code := range cfg.Rules {
		if _, ok := known[code]; !ok {
			return nil, fmt.Errorf("config references unknown rule %q", code)
		}
	}

	var enabled []rules.Rule
	for _, r := range catalog {
		if on, present := cfg.Rules[r.Meta().Code]; present && !on {
			continue
		}
		enabled = append(enabled, r)
	}
	return New(enabled, graph.Build, stop), nil
}
