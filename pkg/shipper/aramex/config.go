package aramex

import (
	"fmt"
	"strings"

	"github.com/tournevent/aramex/pkg/shipper"
)

// Environment selects which Aramex deployment requests go to.
type Environment int

const (
	// Sandbox is the Aramex test deployment.
	Sandbox Environment = iota
	// Production is the live deployment.
	Production
)

// ParseEnvironment normalizes an environment tag. Unknown tags fall back to
// Sandbox.
func ParseEnvironment(tag string) Environment {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "live", "production", "prod":
		return Production
	default:
		return Sandbox
	}
}

// String returns the lowercase name used in descriptor paths.
func (e Environment) String() string {
	if e == Production {
		return "live"
	}
	return "test"
}

// Credentials is the ClientInfo identity block.
type Credentials struct {
	UserName           string `yaml:"username"`
	Password           string `yaml:"password"`
	Version            string `yaml:"version"`
	AccountNumber      string `yaml:"account_number"`
	AccountPin         string `yaml:"account_pin"`
	AccountEntity      string `yaml:"account_entity"`
	AccountCountryCode string `yaml:"account_country_code"`
	Source             int    `yaml:"source"`
}

// LabelInfo selects the report template used to render shipment labels.
type LabelInfo struct {
	ReportID   int    `yaml:"report_id"`
	ReportType string `yaml:"report_type"`
}

// Defaults are business parameters applied when a request does not set them.
type Defaults struct {
	ProductGroup string     `yaml:"product_group"`
	ProductType  string     `yaml:"product_type"`
	PaymentType  string     `yaml:"payment_type"`
	CurrencyCode string     `yaml:"currency_code"`
	LabelInfo    *LabelInfo `yaml:"label_info"`
}

// RawConfig is configuration as loaded, before an environment is chosen.
type RawConfig struct {
	Env      string       `yaml:"env"`
	Test     *Credentials `yaml:"test"`
	Live     *Credentials `yaml:"live"`
	Defaults Defaults     `yaml:"defaults"`
}

// ResolvedConfig is the credential set and defaults for one environment. It
// is never modified after Resolve returns, so it can be shared freely.
type ResolvedConfig struct {
	environment Environment
	credentials Credentials
	defaults    Defaults
}

// Resolve picks the credentials for the configured environment.
func Resolve(raw RawConfig) (*ResolvedConfig, error) {
	env := ParseEnvironment(raw.Env)

	creds := raw.Test
	if env == Production {
		creds = raw.Live
	}
	if creds == nil {
		return nil, shipper.NewError(carrierName, shipper.KindConfiguration,
			fmt.Sprintf("no credentials configured for %s environment", env))
	}

	defaults := raw.Defaults
	if raw.Defaults.LabelInfo != nil {
		label := *raw.Defaults.LabelInfo
		defaults.LabelInfo = &label
	}

	return &ResolvedConfig{
		environment: env,
		credentials: *creds,
		defaults:    defaults,
	}, nil
}

// Environment returns the active environment.
func (c *ResolvedConfig) Environment() Environment { return c.environment }

// Credentials returns a copy of the active credential set.
func (c *ResolvedConfig) Credentials() Credentials { return c.credentials }

// Defaults returns a copy of the default business parameters.
func (c *ResolvedConfig) Defaults() Defaults {
	d := c.defaults
	if c.defaults.LabelInfo != nil {
		label := *c.defaults.LabelInfo
		d.LabelInfo = &label
	}
	return d
}
