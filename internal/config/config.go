package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Default work hours used when the environment does not override them.
const (
	DefaultWorkHoursStart = 9
	DefaultWorkHoursEnd   = 18
)

// Config holds the environment-sourced settings shared by all agents.
// It is loaded once per run and passed by value; agents never read the
// environment directly.
type Config struct {
	// VIPDomains and VIPSenders form the allow-list exempting senders
	// from suppression during triage.
	VIPDomains []string
	VIPSenders []string

	// WorkHoursStart and WorkHoursEnd bound the owner's working day
	// (hours, 0-23) for the watchman's latency judgment.
	WorkHoursStart int
	WorkHoursEnd   int

	// GeminiAPIKey authenticates against the language-model service.
	// Required by LLM-backed agents; checked via RequireGeminiAPIKey.
	GeminiAPIKey string

	// Models is the ordered list of model identifiers to try.
	Models []string

	// Account selects the cached Google OAuth token to use.
	Account string

	// TicketsCSV is the path to a support-ticket export consumed by the
	// tickets agent.
	TicketsCSV string

	// MetricsEnabled turns on the stdout metrics exporter.
	MetricsEnabled bool
}

// Load reads configuration from INBOXPILOT_-prefixed environment variables.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("inboxpilot")
	v.AutomaticEnv()

	v.SetDefault("work_hours_start", DefaultWorkHoursStart)
	v.SetDefault("work_hours_end", DefaultWorkHoursEnd)
	v.SetDefault("account", "default")
	v.SetDefault("models", "gemini-2.5-flash,gemini-2.0-flash")

	cfg := Config{
		VIPDomains:     splitList(v.GetString("vip_domains")),
		VIPSenders:     splitList(v.GetString("vip_senders")),
		WorkHoursStart: v.GetInt("work_hours_start"),
		WorkHoursEnd:   v.GetInt("work_hours_end"),
		GeminiAPIKey:   v.GetString("gemini_api_key"),
		Models:         splitList(v.GetString("models")),
		Account:        v.GetString("account"),
		TicketsCSV:     v.GetString("tickets_csv"),
		MetricsEnabled: v.GetBool("metrics"),
	}

	if cfg.WorkHoursStart < 0 || cfg.WorkHoursStart > 23 {
		return Config{}, fmt.Errorf("invalid INBOXPILOT_WORK_HOURS_START %d: must be 0-23", cfg.WorkHoursStart)
	}
	if cfg.WorkHoursEnd < 0 || cfg.WorkHoursEnd > 23 {
		return Config{}, fmt.Errorf("invalid INBOXPILOT_WORK_HOURS_END %d: must be 0-23", cfg.WorkHoursEnd)
	}

	return cfg, nil
}

// RequireGeminiAPIKey returns an error when no language-model credential is
// configured. Agents that call the model check this at construction so the
// run aborts before any mailbox access.
func (c Config) RequireGeminiAPIKey() error {
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return fmt.Errorf("INBOXPILOT_GEMINI_API_KEY is not set")
	}
	return nil
}

// splitList parses a comma-separated environment value into a trimmed,
// lowercased slice. Empty entries are dropped.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
