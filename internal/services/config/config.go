package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/traefik/paerser/env"
	"github.com/traefik/paerser/file"

	"github.com/zekurio/ascent/internal/models"
)

// Parse loads the config from the given file path merged with
// environment variables carrying the given prefix. A missing config
// file is not an error; defaults and environment still apply.
func Parse(configPath, envPrefix string, defaults models.Config) (cfg models.Config, err error) {
	cfg = defaults

	// pull a local .env into the environment if present
	_ = godotenv.Load()

	err = file.Decode(configPath, &cfg)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return models.Config{}, err
	}

	err = env.Decode(os.Environ(), envPrefix, &cfg)
	if err != nil {
		return models.Config{}, err
	}

	sanitizeLeveling(&cfg.Leveling, defaults.Leveling)

	return cfg, nil
}

// sanitizeLeveling replaces non-positive leveling constants with their
// defaults so a malformed config cannot break the award paths.
func sanitizeLeveling(lc *models.LevelingConfig, def models.LevelingConfig) {
	if lc.XPPerMessage <= 0 {
		lc.XPPerMessage = def.XPPerMessage
	}
	if lc.XPPerVoiceMinute <= 0 {
		lc.XPPerVoiceMinute = def.XPPerVoiceMinute
	}
	if lc.MessageCooldownSecs <= 0 {
		lc.MessageCooldownSecs = def.MessageCooldownSecs
	}
	if lc.VoiceTickSecs <= 0 {
		lc.VoiceTickSecs = def.VoiceTickSecs
	}
	if lc.BaseXP <= 0 {
		lc.BaseXP = def.BaseXP
	}
	if lc.Multiplier <= 0 {
		lc.Multiplier = def.Multiplier
	}
	if lc.MaxLevel <= 1 {
		lc.MaxLevel = def.MaxLevel
	}
	// a zero sentinel would collide with real level values in
	// TierColor
	if lc.EasterEggLevel == 0 {
		lc.EasterEggLevel = def.EasterEggLevel
	}
	if lc.ChannelName == "" {
		lc.ChannelName = def.ChannelName
	}
}
