package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"gocargo/aggregate"
	"gocargo/dataset"
	"gocargo/importer"
)

const (
	KeyColumnsJobNo         = "columns.job_no"
	KeyColumnsQuantity      = "columns.quantity"
	KeyColumnsInvoiceAmount = "columns.invoice_amount"
	KeyColumnsCurrency      = "columns.currency"
	KeyColumnsCommodity     = "columns.commodity"
	KeySheetsTitleRows      = "sheets.title_rows"
	KeySheetsWorkers        = "sheets.workers"
	KeyLogLevel             = "log.level"
	KeyLogFormat            = "log.format"
	KeyStorageDB            = "storage.db"
	KeyStoragePersistRuns   = "storage.persist_runs"
	KeyTotalsCurrencies     = "totals.currencies"
	KeyServePort            = "serve.port"
	KeyServeMaxUploadMB     = "serve.max_upload_mb"
)

type Config struct {
	Columns ColumnsConfig `mapstructure:"columns"`
	Sheets  SheetsConfig  `mapstructure:"sheets"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Totals  TotalsConfig  `mapstructure:"totals"`
	Serve   ServeConfig   `mapstructure:"serve"`
}

// ColumnsConfig names the cleaned (lower-case, single-spaced) columns the
// pipeline looks for.
type ColumnsConfig struct {
	JobNo         string `mapstructure:"job_no" validate:"required"`
	Quantity      string `mapstructure:"quantity" validate:"required"`
	InvoiceAmount string `mapstructure:"invoice_amount" validate:"required"`
	Currency      string `mapstructure:"currency" validate:"required"`
	Commodity     string `mapstructure:"commodity" validate:"required"`
}

type SheetsConfig struct {
	TitleRows int `mapstructure:"title_rows" validate:"gte=0,lte=100"`
	Workers   int `mapstructure:"workers" validate:"gte=1,lte=64"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type StorageConfig struct {
	DB          string `mapstructure:"db" validate:"required"`
	PersistRuns bool   `mapstructure:"persist_runs"`
}

type TotalsConfig struct {
	Currencies []string `mapstructure:"currencies" validate:"dive,required"`
}

type ServeConfig struct {
	Port        int `mapstructure:"port" validate:"gte=1,lte=65535"`
	MaxUploadMB int `mapstructure:"max_upload_mb" validate:"gte=1,lte=1024"`
}

// Schema converts the column settings into the dataset schema. Names are
// cleaned the same way sheet headers are, so "Job No" matches "job no".
func (c *Config) Schema() dataset.Schema {
	return dataset.Schema{
		JobNo:         importer.CleanColumnName(c.Columns.JobNo),
		Quantity:      importer.CleanColumnName(c.Columns.Quantity),
		InvoiceAmount: importer.CleanColumnName(c.Columns.InvoiceAmount),
		Currency:      importer.CleanColumnName(c.Columns.Currency),
		Commodity:     importer.CleanColumnName(c.Columns.Commodity),
	}
}

// CurrencyCards returns the normalized currency codes to show as metric cards.
func (c *Config) CurrencyCards() []string {
	codes := make([]string, 0, len(c.Totals.Currencies))
	seen := make(map[string]struct{}, len(c.Totals.Currencies))
	for _, code := range c.Totals.Currencies {
		normalized := aggregate.NormalizeCurrency(code)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		codes = append(codes, normalized)
	}
	return codes
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# gocargo configuration
columns:
  job_no: "job no"
  quantity: "quantity/mt"
  invoice_amount: "invoice amount"
  currency: "currency"
  commodity: "commodity"

sheets:
  title_rows: 1
  workers: 4

log:
  level: "info"
  format: "text"

storage:
  db: "./gocargo.db"
  persist_runs: false

totals:
  currencies: ["USD", "EGP"]

serve:
  port: 8080
  max_upload_mb: 32
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateColumns(cfg.Schema()); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := dataset.DefaultSchema()
	v.SetDefault(KeyColumnsJobNo, defaults.JobNo)
	v.SetDefault(KeyColumnsQuantity, defaults.Quantity)
	v.SetDefault(KeyColumnsInvoiceAmount, defaults.InvoiceAmount)
	v.SetDefault(KeyColumnsCurrency, defaults.Currency)
	v.SetDefault(KeyColumnsCommodity, defaults.Commodity)
	v.SetDefault(KeySheetsTitleRows, 1)
	v.SetDefault(KeySheetsWorkers, 4)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyStorageDB, "./gocargo.db")
	v.SetDefault(KeyStoragePersistRuns, false)
	v.SetDefault(KeyTotalsCurrencies, []string{"USD", "EGP"})
	v.SetDefault(KeyServePort, 8080)
	v.SetDefault(KeyServeMaxUploadMB, 32)
}

func validateColumns(schema dataset.Schema) error {
	seen := make(map[string]string, 6)
	seen[dataset.ClientColumn] = "client"
	named := []struct {
		key  string
		name string
	}{
		{key: KeyColumnsJobNo, name: schema.JobNo},
		{key: KeyColumnsQuantity, name: schema.Quantity},
		{key: KeyColumnsInvoiceAmount, name: schema.InvoiceAmount},
		{key: KeyColumnsCurrency, name: schema.Currency},
		{key: KeyColumnsCommodity, name: schema.Commodity},
	}
	for _, column := range named {
		if column.name == "" {
			return fmt.Errorf("validation failed: %s is required", column.key)
		}
		if other, exists := seen[column.name]; exists {
			return fmt.Errorf("validation failed: %s %q is already used by %s", column.key, column.name, other)
		}
		seen[column.name] = column.key
	}
	return nil
}
