// Package config builds the process configuration once at startup. Components
// receive the values they need through their constructors; there is no
// package-level configuration state.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Banking API
	BankBaseURL      string
	BankToken        string
	SourceAccountID  string
	SavingsAccountID string

	// Budget spreadsheet
	SpreadsheetID string
	BudgetRange   string

	// AI service
	GeminiModel string

	// Report
	ReportSender     string
	ReportRecipients []string

	// Categorization
	AccuracyThreshold float64
	MaxRetries        int
	RetryBackoffBase  time.Duration

	// Savings transfer
	TransferPollInterval time.Duration
	TransferMaxPolls     int

	// Retrieval window
	Lookback time.Duration
}

// Load builds the configuration from the environment, applying defaults for
// everything that has a sensible one.
func Load() *Config {
	return &Config{
		BankBaseURL:      getEnv("BANK_API_BASE_URL", ""),
		BankToken:        getEnv("BANK_API_TOKEN", ""),
		SourceAccountID:  getEnv("BANK_SOURCE_ACCOUNT_ID", ""),
		SavingsAccountID: getEnv("BANK_SAVINGS_ACCOUNT_ID", ""),

		SpreadsheetID: getEnv("BUDGET_SPREADSHEET_ID", ""),
		BudgetRange:   getEnv("BUDGET_SHEET_RANGE", "Budget!A2:B"),

		GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		ReportSender:     getEnv("REPORT_SENDER", ""),
		ReportRecipients: getEnvList("REPORT_RECIPIENTS"),

		AccuracyThreshold: getEnvFloat("CATEGORIZATION_ACCURACY_THRESHOLD", 0.95),
		MaxRetries:        getEnvInt("AI_MAX_RETRIES", 3),
		RetryBackoffBase:  getEnvDuration("AI_RETRY_BACKOFF_BASE", 1*time.Second),

		TransferPollInterval: getEnvDuration("TRANSFER_POLL_INTERVAL", 2*time.Second),
		TransferMaxPolls:     getEnvInt("TRANSFER_MAX_POLLS", 15),

		Lookback: getEnvDuration("RETRIEVAL_LOOKBACK", 7*24*time.Hour),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	if c.BankBaseURL == "" {
		problems = append(problems, "BANK_API_BASE_URL is required")
	} else if u, err := url.Parse(c.BankBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		problems = append(problems, fmt.Sprintf("invalid BANK_API_BASE_URL %q", c.BankBaseURL))
	}
	if c.SourceAccountID == "" {
		problems = append(problems, "BANK_SOURCE_ACCOUNT_ID is required")
	}
	if c.SavingsAccountID == "" {
		problems = append(problems, "BANK_SAVINGS_ACCOUNT_ID is required")
	}
	if c.SpreadsheetID == "" {
		problems = append(problems, "BUDGET_SPREADSHEET_ID is required")
	}
	if c.AccuracyThreshold <= 0 || c.AccuracyThreshold > 1 {
		problems = append(problems, fmt.Sprintf("CATEGORIZATION_ACCURACY_THRESHOLD must be in (0, 1], got %v", c.AccuracyThreshold))
	}
	if c.MaxRetries < 0 {
		problems = append(problems, fmt.Sprintf("AI_MAX_RETRIES must be >= 0, got %d", c.MaxRetries))
	}
	if c.TransferMaxPolls < 1 {
		problems = append(problems, fmt.Sprintf("TRANSFER_MAX_POLLS must be >= 1, got %d", c.TransferMaxPolls))
	}
	if c.ReportSender == "" {
		problems = append(problems, "REPORT_SENDER is required")
	}
	if len(c.ReportRecipients) == 0 {
		problems = append(problems, "REPORT_RECIPIENTS is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
