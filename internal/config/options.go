package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Options is the TOML options file passed with --options. Every key is
// optional and overrides the matching configuration value.
type Options struct {
	Visibility      *string `toml:"visibility"`
	Force           *bool   `toml:"force"`
	ContinueOnError *bool   `toml:"continue_on_error"`
	Parallelism     *int    `toml:"parallelism"`
	Output          *string `toml:"output"`
	Record          *bool   `toml:"record"`
}

// LoadOptions decodes the options file at path. Unknown keys are an error.
func LoadOptions(path string) (*Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Field: "options", Message: err.Error()}
	}
	defer f.Close()

	var o Options
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&o); err != nil {
		return nil, &ConfigError{Field: "options", Message: fmt.Sprintf("%s: %v", path, err)}
	}
	return &o, nil
}

// Apply overlays the options on c.
func (o *Options) Apply(c *Config) {
	if o == nil {
		return
	}
	if o.Visibility != nil {
		c.Comparison.Visibility = *o.Visibility
	}
	if o.Force != nil {
		c.Comparison.Force = *o.Force
	}
	if o.ContinueOnError != nil {
		c.Comparison.ContinueOnError = *o.ContinueOnError
	}
	if o.Parallelism != nil {
		c.Comparison.Parallelism = *o.Parallelism
	}
	if o.Output != nil {
		c.Output.Format = *o.Output
	}
	if o.Record != nil {
		c.Storage.Enabled = *o.Record
	}
}
