package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"pricefeed-api/internal/config"
	"pricefeed-api/pkg/confkit"
	"pricefeed-api/pkg/scheduler"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	spec := cfg.Scheduler.Spec
	if spec == "" {
		spec = scheduler.DefaultSpec
	}
	tickers := "all"
	if len(cfg.Scheduler.Tickers) > 0 {
		tickers = strings.Join(cfg.Scheduler.Tickers, ",")
	}

	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Postgres: %s (auto-migrate=%t)", presence(cfg.Postgres.DSN != ""), cfg.Postgres.AutoMigrate),
		fmt.Sprintf("Redis: %s", presence(strings.TrimSpace(cfg.Redis.Host) != "")),
		fmt.Sprintf("TTL (latest): %ds", cfg.TTL.Latest),
		fmt.Sprintf("Schedule: %s UTC, tickers=%s, job timeout=%s", spec, tickers, cfg.Scheduler.JobTimeout),
		sectionLine("Feed config", cfg.Feed),
	}

	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: built-in deribit default", name)
	}
}
