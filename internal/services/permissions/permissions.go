package permissions

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sarulabs/di/v2"
	"github.com/zekrotja/ken"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/util/static"
	"github.com/zekurio/ascent/pkg/discordutils"
	"github.com/zekurio/ascent/pkg/perms"
	"github.com/zekurio/ascent/pkg/roleutils"
)

// Permissions gates commands behind rule-array permission domains as
// a ken Before middleware.
type Permissions struct {
	db  database.Database
	cfg models.Config
	s   *discordgo.Session
}

var _ ken.MiddlewareBefore = (*Permissions)(nil)

func InitPermissions(ctn di.Container) *Permissions {
	return &Permissions{
		db:  ctn.Get(static.DiDatabase).(database.Database),
		cfg: ctn.Get(static.DiConfig).(models.Config),
		s:   ctn.Get(static.DiDiscord).(*discordgo.Session),
	}
}

func (p *Permissions) Before(ctx *ken.Ctx) (next bool, err error) {
	cmd, ok := ctx.Command.(CommandPerms)
	if !ok {
		return true, nil
	}

	if ctx.User() == nil {
		return false, nil
	}

	ok, err = p.HasPerms(ctx.GetSession(), ctx.GetEvent().GuildID, ctx.User().ID, cmd.Perm())
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ctx.RespondError("You are not permitted to use this command!", "Missing Permission")
	}

	return true, nil
}

// HasPerms reports whether the user holds the given permission domain
// in the guild.
func (p *Permissions) HasPerms(session *discordgo.Session, guildID, userID, dn string) (bool, error) {
	pa, err := p.GetPerms(session, guildID, userID)
	if err != nil {
		return false, err
	}

	return pa.Has(dn), nil
}

// GetPerms assembles the effective rule array of a user. The instance
// owner overrides everything; guild owners and administrators start
// from the admin defaults; stored per-role rules are layered on top;
// the user defaults fill whatever is left open.
func (p *Permissions) GetPerms(session *discordgo.Session, guildID, userID string) (perms.PermsArray, error) {
	if p.cfg.Discord.OwnerID != "" && userID == p.cfg.Discord.OwnerID {
		return perms.PermsArray{"+as.*"}, nil
	}

	userRules := p.cfg.Permissions.UserRules
	if userRules == nil {
		userRules = static.DefaultUserRules
	}

	var pa perms.PermsArray
	if guildID == "" {
		return pa.Merge(userRules, false), nil
	}

	guild, err := discordutils.GetGuild(session, guildID)
	if err != nil {
		return pa.Merge(userRules, false), nil
	}

	member, err := discordutils.GetMember(session, guildID, userID)
	if err != nil {
		return pa.Merge(userRules, false), nil
	}

	if userID == guild.OwnerID || discordutils.IsAdmin(guild, member) {
		adminRules := p.cfg.Permissions.AdminRules
		if adminRules == nil {
			adminRules = static.DefaultAdminRules
		}
		pa = pa.Merge(adminRules, false)
	}

	if rolePerms, err := p.db.GetPermissions(guildID); err == nil && len(rolePerms) > 0 {
		roles, err := roleutils.GetSortedMemberRoles(session, guildID, userID, false, true)
		if err == nil {
			for _, r := range roles {
				if rp, ok := rolePerms[r.ID]; ok {
					pa = pa.Merge(rp, true)
				}
			}
		}
	}

	return pa.Merge(userRules, false), nil
}
