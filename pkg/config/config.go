// Package config loads every setting the reconciler needs, from three layers
// in ascending precedence: an optional config.yaml, a .env file, and the
// process environment. Command-line flags override all of them.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// AmazonAccount holds credentials for one Amazon account. Accounts are
// resolved once at load time; nothing re-scans the environment afterwards.
type AmazonAccount struct {
	Name     string
	Username string
	Password string
}

// YNABConfig holds the budgeting-side settings.
type YNABConfig struct {
	APIKey         string
	BudgetID       string
	PayeeToProcess string
	PayeeCompleted string
	UseMarkdown    bool
}

// OpenAIConfig holds the summarization provider settings.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

type Config struct {
	YNAB   YNABConfig
	OpenAI OpenAIConfig

	Accounts []AmazonAccount

	OrderYears      []string
	TransactionDays int
	ForceRefresh    bool

	UseAISummarization          bool
	SuppressPartialOrderWarning bool
}

// Build assembles the configuration. The config file and the .env file are
// both optional; flags may be nil when no command-line overrides apply.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = gotenv.Load()

	v := viper.New()
	v.SetDefault("ynab_payee_name_to_be_processed", "Amazon - Needs Memo")
	v.SetDefault("ynab_payee_name_processing_completed", "Amazon")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("transaction_days", 31)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		_ = v.ReadInConfig()
	}

	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	years, err := NormalizeYears(v.GetStringSlice("years"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		YNAB: YNABConfig{
			APIKey:         v.GetString("ynab_api_key"),
			BudgetID:       v.GetString("ynab_budget_id"),
			PayeeToProcess: v.GetString("ynab_payee_name_to_be_processed"),
			PayeeCompleted: v.GetString("ynab_payee_name_processing_completed"),
			UseMarkdown:    v.GetBool("ynab_use_markdown") || v.GetBool("markdown"),
		},
		OpenAI: OpenAIConfig{
			APIKey: v.GetString("openai_api_key"),
			Model:  v.GetString("openai_model"),
		},
		Accounts:                    discoverAccounts(),
		OrderYears:                  years,
		TransactionDays:             v.GetInt("transaction_days"),
		ForceRefresh:                v.GetBool("force_refresh") || v.GetBool("force-refresh"),
		UseAISummarization:          v.GetBool("use_ai_summarization") || v.GetBool("ai"),
		SuppressPartialOrderWarning: v.GetBool("suppress_partial_order_warning"),
	}
	if days := v.GetInt("days"); days > 0 {
		cfg.TransactionDays = days
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the configuration errors that must stop the run before
// any side effect happens.
func (c *Config) Validate() error {
	if c.YNAB.APIKey == "" {
		return fmt.Errorf("YNAB_API_KEY is not set")
	}
	if c.YNAB.BudgetID == "" {
		return fmt.Errorf("YNAB_BUDGET_ID is not set")
	}
	if len(c.Accounts) == 0 {
		return fmt.Errorf("no Amazon account configured: set AMAZON_USER and AMAZON_PASSWORD, or numbered pairs AMAZON_USER_1/AMAZON_PASSWORD_1, AMAZON_USER_2/AMAZON_PASSWORD_2, ...")
	}
	if c.UseAISummarization && c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when AI summarization is enabled")
	}
	return nil
}

// discoverAccounts builds the ordered account list. Numbered pairs win; the
// legacy single AMAZON_USER/AMAZON_PASSWORD pair is only used when no
// numbered account exists.
func discoverAccounts() []AmazonAccount {
	var accounts []AmazonAccount

	for i := 1; ; i++ {
		user := envAny(
			fmt.Sprintf("AMAZON_USER_%d", i),
			fmt.Sprintf("amazon_user_%d", i),
		)
		password := envAny(
			fmt.Sprintf("AMAZON_PASSWORD_%d", i),
			fmt.Sprintf("amazon_password_%d", i),
		)
		if user == "" || password == "" {
			break
		}
		accounts = append(accounts, AmazonAccount{
			Name:     fmt.Sprintf("Account %d", i),
			Username: user,
			Password: password,
		})
	}

	if len(accounts) == 0 {
		user := envAny("AMAZON_USER", "amazon_user")
		password := envAny("AMAZON_PASSWORD", "amazon_password")
		if user != "" && password != "" {
			accounts = append(accounts, AmazonAccount{
				Name:     "Account 1",
				Username: user,
				Password: password,
			})
		}
	}

	return accounts
}

// envAny returns the first non-empty value among the given variable names.
// .env files commonly use lowercase keys, so both casings are probed.
func envAny(names ...string) string {
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}

// NormalizeYears expands order-history years to four digits. An empty list
// means the current year.
func NormalizeYears(years []string) ([]string, error) {
	if len(years) == 0 {
		return []string{strconv.Itoa(time.Now().Year())}, nil
	}

	result := make([]string, 0, len(years))
	for _, year := range years {
		switch len(year) {
		case 2:
			result = append(result, "20"+year)
		case 4:
			result = append(result, year)
		default:
			return nil, fmt.Errorf("year must have 2 or 4 digits (e.g. 21 or 2021), got %q", year)
		}
	}
	return result, nil
}
