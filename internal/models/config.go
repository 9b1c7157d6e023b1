package models

import "github.com/zekurio/ascent/internal/util/static"

var DefaultConfig = Config{
	Discord: DiscordConfig{
		Token:      "",
		OwnerID:    "",
		GuildLimit: -1,
	},
	Postgres: PostgresConfig{
		Host: "localhost",
		Port: 5432,
	},
	Leveling: LevelingConfig{
		XPPerMessage:        1,
		XPPerVoiceMinute:    5,
		MessageCooldownSecs: 300,
		VoiceTickSecs:       60,
		BaseXP:              35,
		Multiplier:          1.041,
		MaxLevel:            200,
		EasterEggUserID:     "",
		EasterEggLevel:      -69,
		ChannelName:         "level-up",
	},
	Webserver: WebserverConfig{
		Enabled: false,
		Addr:    ":8080",
	},
	Permissions: PermissionRules{
		UserRules:  static.DefaultUserRules,
		AdminRules: static.DefaultAdminRules,
	},
}

type DiscordConfig struct {
	Token      string
	OwnerID    string
	GuildLimit int
}

type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// LevelingConfig holds every tunable of the XP engine. All fields
// have safe defaults; a zero or negative value is replaced by the
// default at parse time so a broken config file cannot stall the
// award paths.
type LevelingConfig struct {
	XPPerMessage        int
	XPPerVoiceMinute    int
	MessageCooldownSecs int
	VoiceTickSecs       int
	BaseXP              float64
	Multiplier          float64
	MaxLevel            int
	EasterEggUserID     string
	EasterEggLevel      int
	ChannelName         string
}

type WebserverConfig struct {
	Enabled bool
	Addr    string
}

type PermissionRules struct {
	UserRules  []string
	AdminRules []string
}

type Config struct {
	Discord     DiscordConfig
	Postgres    PostgresConfig
	Leveling    LevelingConfig
	Webserver   WebserverConfig
	Permissions PermissionRules
}
