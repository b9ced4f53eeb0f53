package config

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Money is a decimal amount that knows how to decode itself from a YAML
// scalar like "9.99".
type Money struct {
	decimal.Decimal
}

func (m *Money) UnmarshalYAML(value *yaml.Node) error {
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", value.Value, err)
	}
	m.Decimal = d
	return nil
}

// AppConfig describes one native OnSite application sold through this web
// surface. The table is closed: an app name not listed here is rejected
// everywhere, and a URL scheme not listed here never becomes a native
// redirect target.
type AppConfig struct {
	Name          string `yaml:"name"`
	DisplayName   string `yaml:"display_name"`
	StripePriceID string `yaml:"stripe_price_id"`
	NativeScheme  string `yaml:"native_scheme"`
	MonthlyPrice  Money  `yaml:"monthly_price"`
	Mobile        bool   `yaml:"mobile"`
}

// ValidateApps checks the app table at load time so every later lookup can
// trust the entries.
func ValidateApps(apps []AppConfig) error {
	if len(apps) == 0 {
		return fmt.Errorf("at least one app must be configured")
	}

	names := make(map[string]bool, len(apps))
	schemes := make(map[string]bool, len(apps))
	for _, app := range apps {
		if app.Name == "" {
			return fmt.Errorf("app name is required")
		}
		if names[app.Name] {
			return fmt.Errorf("duplicate app name: %s", app.Name)
		}
		names[app.Name] = true

		if app.DisplayName == "" {
			return fmt.Errorf("app %s: display_name is required", app.Name)
		}
		if app.NativeScheme == "" {
			return fmt.Errorf("app %s: native_scheme is required", app.Name)
		}
		if schemes[app.NativeScheme] {
			return fmt.Errorf("app %s: duplicate native scheme: %s", app.Name, app.NativeScheme)
		}
		schemes[app.NativeScheme] = true
	}
	return nil
}

// App returns the config for the given app name, or nil when the name is
// not part of the closed set.
func (c *Config) App(name string) *AppConfig {
	for i := range c.Apps {
		if c.Apps[i].Name == name {
			return &c.Apps[i]
		}
	}
	return nil
}

// NativeSchemes returns the allow-list of URL schemes registered by the
// configured apps.
func (c *Config) NativeSchemes() []string {
	schemes := make([]string, 0, len(c.Apps))
	for _, app := range c.Apps {
		schemes = append(schemes, app.NativeScheme)
	}
	return schemes
}
