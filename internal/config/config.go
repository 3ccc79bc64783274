package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/tournevent/aramex/pkg/shipper/aramex"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Aramex
	AramexEnv           string        `envconfig:"ARAMEX_ENV"`
	AramexConfigFile    string        `envconfig:"ARAMEX_CONFIG_FILE"`
	AramexDescriptorDir string        `envconfig:"ARAMEX_DESCRIPTOR_DIR" default:"wsdls"`
	AramexUseMock       bool          `envconfig:"ARAMEX_USE_MOCK" default:"false"`
	AramexTimeout       time.Duration `envconfig:"ARAMEX_TIMEOUT" default:"30s"`
	AramexTest          Credentials   `envconfig:"ARAMEX_TEST"`
	AramexLive          Credentials   `envconfig:"ARAMEX_LIVE"`

	// Business defaults
	ProductGroup    string `envconfig:"ARAMEX_PRODUCT_GROUP" default:"EXP"`
	ProductType     string `envconfig:"ARAMEX_PRODUCT_TYPE" default:"PPX"`
	PaymentType     string `envconfig:"ARAMEX_PAYMENT_TYPE" default:"P"`
	CurrencyCode    string `envconfig:"ARAMEX_CURRENCY_CODE" default:"USD"`
	LabelReportID   int    `envconfig:"ARAMEX_LABEL_REPORT_ID"`
	LabelReportType string `envconfig:"ARAMEX_LABEL_REPORT_TYPE" default:"RPT"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"aramex-bridge"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Credentials is one Aramex account as read from the environment, e.g.
// ARAMEX_TEST_USERNAME.
type Credentials struct {
	UserName           string `envconfig:"USERNAME"`
	Password           string `envconfig:"PASSWORD"`
	Version            string `envconfig:"VERSION"`
	AccountNumber      string `envconfig:"ACCOUNT_NUMBER"`
	AccountPin         string `envconfig:"ACCOUNT_PIN"`
	AccountEntity      string `envconfig:"ACCOUNT_ENTITY"`
	AccountCountryCode string `envconfig:"ACCOUNT_COUNTRY_CODE"`
	Source             int    `envconfig:"SOURCE"`
}

const defaultAPIVersion = "v1.0"

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Aramex assembles the carrier configuration. When ARAMEX_CONFIG_FILE is set
// the YAML file supplies it, with ${VAR} references expanded; otherwise the
// ARAMEX_* variables do. ARAMEX_ENV and the default variables fill whatever
// the file leaves empty.
func (c *Config) Aramex() (aramex.RawConfig, error) {
	raw := aramex.RawConfig{
		Test: c.AramexTest.toAramex(),
		Live: c.AramexLive.toAramex(),
	}

	if c.AramexConfigFile != "" {
		file, err := loadFile(c.AramexConfigFile)
		if err != nil {
			return aramex.RawConfig{}, err
		}
		raw = file
	}

	if c.AramexEnv != "" {
		raw.Env = c.AramexEnv
	}

	d := &raw.Defaults
	d.ProductGroup = firstNonEmpty(d.ProductGroup, c.ProductGroup)
	d.ProductType = firstNonEmpty(d.ProductType, c.ProductType)
	d.PaymentType = firstNonEmpty(d.PaymentType, c.PaymentType)
	d.CurrencyCode = firstNonEmpty(d.CurrencyCode, c.CurrencyCode)
	if d.LabelInfo == nil && c.LabelReportID != 0 {
		d.LabelInfo = &aramex.LabelInfo{ReportID: c.LabelReportID, ReportType: c.LabelReportType}
	}

	return raw, nil
}

// Resolve assembles and resolves the carrier configuration.
func (c *Config) Resolve() (*aramex.ResolvedConfig, error) {
	raw, err := c.Aramex()
	if err != nil {
		return nil, err
	}
	return aramex.Resolve(raw)
}

func loadFile(path string) (aramex.RawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return aramex.RawConfig{}, fmt.Errorf("reading aramex config file: %w", err)
	}

	var raw aramex.RawConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &raw); err != nil {
		return aramex.RawConfig{}, fmt.Errorf("parsing aramex config file: %w", err)
	}
	return raw, nil
}

// toAramex returns nil when no credential variable is set, so a missing
// account is reported as such instead of as a login failure.
func (c Credentials) toAramex() *aramex.Credentials {
	if c == (Credentials{}) {
		return nil
	}
	return &aramex.Credentials{
		UserName:           c.UserName,
		Password:           c.Password,
		Version:            firstNonEmpty(c.Version, defaultAPIVersion),
		AccountNumber:      c.AccountNumber,
		AccountPin:         c.AccountPin,
		AccountEntity:      c.AccountEntity,
		AccountCountryCode: c.AccountCountryCode,
		Source:             c.Source,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("aramex.env", c.AramexEnv),
		attribute.Bool("aramex.mock", c.AramexUseMock),
	}
}
