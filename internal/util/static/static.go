package static

import "github.com/bwmarrin/discordgo"

const (
	DiConfig         = "di-config"
	DiDatabase       = "di-database"
	DiDiscord        = "di-discord"
	DiCommandHandler = "di-cmdhandler"
	DiScheduler      = "di-scheduler"
	DiPermissions    = "di-permissions"
	DiLeveling       = "di-leveling"
	DiPresence       = "di-presence"
	DiNotifier       = "di-notifier"
	DiVoiceTracker   = "di-voicetracker"
	DiWebserver      = "di-webserver"
)

const (
	ColorDefault = 0x7169ba
	ColorRed     = 0xff2b66
	ColorGreen   = 0x92f026
	ColorYellow  = 0xffff38
	ColorGray    = 0x929292
	ColorOrange  = 0xff9a2b
	ColorViolet  = 0xb44cf0
	ColorCyan    = 0x38e0ff
	ColorPink    = 0xff69b4

	OAuthScopes = "bot%20applications.commands"

	InvitePermission = discordgo.PermissionEmbedLinks |
		discordgo.PermissionManageRoles |
		discordgo.PermissionAttachFiles

	Intents = discordgo.IntentsGuilds |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates
)

var (
	DefaultAdminRules = []string{
		"+as.guild.*",
		"+as.etc.*",
		"+as.chat.*",
	}

	DefaultUserRules = []string{
		"+as.etc.*",
		"+as.chat.*",
	}
)
