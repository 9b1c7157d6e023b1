package middlewares

import (
	"time"

	"github.com/zekrotja/ken"
)

type CooldownMiddleware struct {
	expiries map[string]map[string]time.Time // map[userID]map[commandName]expiry
}

func NewCooldownMiddleware() *CooldownMiddleware {
	return &CooldownMiddleware{
		expiries: make(map[string]map[string]time.Time),
	}
}

func (m *CooldownMiddleware) Before(ctx *ken.Ctx) (next bool, err error) {
	next = true

	if m.isOnCooldown(ctx) {
		next = false
		err = ctx.RespondError("You are on cooldown.", "")
	}

	return
}

func (m *CooldownMiddleware) isOnCooldown(ctx *ken.Ctx) bool {
	cmd, ok := ctx.Command.(CommandCooldown)
	if !ok || cmd.Cooldown() <= 0 {
		return false
	}

	userID := ctx.User().ID
	commandName := ctx.Command.Name()

	if _, ok := m.expiries[userID]; !ok {
		m.expiries[userID] = make(map[string]time.Time)
	}

	if time.Now().Before(m.expiries[userID][commandName]) {
		return true
	}

	m.expiries[userID][commandName] = time.Now().Add(time.Duration(cmd.Cooldown()) * time.Second)
	return false
}

type CommandCooldown interface {
	// Cooldown returns the cooldown of the command in seconds.
	Cooldown() int
}
