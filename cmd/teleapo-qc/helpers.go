package main

import (
	"os"

	"teleapo-qc-go/internal/config"
	"teleapo-qc-go/internal/speaker"
)

func resolveCheckers(cfg config.Config, override []string) []string {
	if len(override) > 0 {
		return override
	}
	return cfg.CheckerNames
}

func pickInt(flagVal, def int) int {
	if flagVal > 0 {
		return flagVal
	}
	return def
}

func loadDetectionRules(cfg config.Config) (speaker.Rules, error) {
	if cfg.RulesPath == "" {
		return speaker.DefaultRules(), nil
	}
	return speaker.LoadRules(cfg.RulesPath)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
