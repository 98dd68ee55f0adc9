package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Site    SiteConfig    `mapstructure:"site"`
	Browser BrowserConfig `mapstructure:"browser"`
	Listing ListingConfig `mapstructure:"listing"`
	Export  ExportConfig  `mapstructure:"export"`
	Log     LogConfig     `mapstructure:"log"`
}

// SiteConfig holds the target site and the requested category allow-list
type SiteConfig struct {
	BaseURL    string          `mapstructure:"base_url"`
	Categories []string        `mapstructure:"categories"`
	Selectors  SelectorsConfig `mapstructure:"selectors"`
}

// SelectorsConfig names every structural affordance the pipeline relies on.
// These are the only site-specific strings in the repository.
type SelectorsConfig struct {
	CategoryMenu       string `mapstructure:"category_menu"`
	CategoryItem       string `mapstructure:"category_item"`
	SubcategoryItem    string `mapstructure:"subcategory_item"`
	SubcategoryToggle  string `mapstructure:"subcategory_toggle"`
	LeafLink           string `mapstructure:"leaf_link"`
	ProductCard        string `mapstructure:"product_card"`
	ProductTitle       string `mapstructure:"product_title"`
	ProductPrice       string `mapstructure:"product_price"`
	ProductPackageSize string `mapstructure:"product_package_size"`
	ProductLink        string `mapstructure:"product_link"`
	NextPage           string `mapstructure:"next_page"`
	ConsentButton      string `mapstructure:"consent_button"`
}

// BrowserConfig holds browser session settings
type BrowserConfig struct {
	Headless             bool `mapstructure:"headless"`
	NoSandbox            bool `mapstructure:"no_sandbox"`
	WaitTimeout          int  `mapstructure:"wait_timeout"` // seconds
	NavigationsPerSecond int  `mapstructure:"navigations_per_second"`
	ProbeTimeout         int  `mapstructure:"probe_timeout"` // seconds
	ProbeRetries         int  `mapstructure:"probe_retries"`
}

// ListingConfig bounds the per-leaf listing traversal
type ListingConfig struct {
	MaxPages     int `mapstructure:"max_pages"`
	IdleScrolls  int `mapstructure:"idle_scrolls"`
	ScrollSettle int `mapstructure:"scroll_settle"` // milliseconds
}

// ExportConfig selects and configures the output sink
type ExportConfig struct {
	Sink      string         `mapstructure:"sink"` // "json" or "postgres"
	OutputDir string         `mapstructure:"output_dir"`
	Database  DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig holds Postgres sink connection details
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// WaitTimeoutDuration returns the per-operation wait ceiling
func (b BrowserConfig) WaitTimeoutDuration() time.Duration {
	return time.Duration(b.WaitTimeout) * time.Second
}

// ScrollSettleDuration returns the settle wait between scroll attempts
func (l ListingConfig) ScrollSettleDuration() time.Duration {
	return time.Duration(l.ScrollSettle) * time.Millisecond
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("site.base_url", "https://www.freshmart.example")
	viper.SetDefault("site.categories", []string{})

	viper.SetDefault("site.selectors.category_menu", "nav.category-nav")
	viper.SetDefault("site.selectors.category_item", "nav.category-nav a.category-link")
	viper.SetDefault("site.selectors.subcategory_item", "ul.subcategory-list > li")
	viper.SetDefault("site.selectors.subcategory_toggle", "a.subcategory-toggle")
	viper.SetDefault("site.selectors.leaf_link", "ul.subcategory2-list a")
	viper.SetDefault("site.selectors.product_card", "div.product-card")
	viper.SetDefault("site.selectors.product_title", ".product-title")
	viper.SetDefault("site.selectors.product_price", ".regular-price")
	viper.SetDefault("site.selectors.product_package_size", ".product-package-size")
	viper.SetDefault("site.selectors.product_link", "a.product-link")
	viper.SetDefault("site.selectors.next_page", "a.pagination-next")
	viper.SetDefault("site.selectors.consent_button", "button#accept-cookies")

	viper.SetDefault("browser.headless", true)
	viper.SetDefault("browser.no_sandbox", true)
	viper.SetDefault("browser.wait_timeout", 10)
	viper.SetDefault("browser.navigations_per_second", 2)
	viper.SetDefault("browser.probe_timeout", 15)
	viper.SetDefault("browser.probe_retries", 3)

	viper.SetDefault("listing.max_pages", 50)
	viper.SetDefault("listing.idle_scrolls", 2)
	viper.SetDefault("listing.scroll_settle", 800)

	viper.SetDefault("export.sink", "json")
	viper.SetDefault("export.output_dir", "output")
	viper.SetDefault("export.database.host", "localhost")
	viper.SetDefault("export.database.port", 5432)
	viper.SetDefault("export.database.name", "freshmart")
	viper.SetDefault("export.database.user", "freshmart_user")
	viper.SetDefault("export.database.password", "freshmart_pass")

	viper.SetDefault("log.level", "info")
}
