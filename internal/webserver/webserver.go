// Package webserver exposes a small read-only JSON API over the XP
// records of the bot.
package webserver

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sarulabs/di/v2"
	"github.com/valyala/fasthttp"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/services/database/dberr"
	"github.com/zekurio/ascent/internal/services/leveling"
	"github.com/zekurio/ascent/internal/util/static"
)

type Webserver struct {
	server *fasthttp.Server
	addr   string

	db  database.Database
	lvl leveling.Provider
}

func New(ctn di.Container) *Webserver {
	ws := &Webserver{
		addr: ctn.Get(static.DiConfig).(models.Config).Webserver.Addr,
		db:   ctn.Get(static.DiDatabase).(database.Database),
		lvl:  ctn.Get(static.DiLeveling).(leveling.Provider),
	}
	ws.server = &fasthttp.Server{
		Handler: ws.handle,
		Name:    "ascent",
	}
	return ws
}

// ListenAndServeBlocking binds the API socket and serves until the
// server is shut down.
func (ws *Webserver) ListenAndServeBlocking() error {
	return ws.server.ListenAndServe(ws.addr)
}

func (ws *Webserver) Shutdown() error {
	return ws.server.Shutdown()
}

func (ws *Webserver) handle(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		respondError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := strings.Trim(string(ctx.Path()), "/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] != "api" {
		respondError(ctx, fasthttp.StatusNotFound, "not found")
		return
	}

	switch parts[1] {
	case "status":
		respondJSON(ctx, fasthttp.StatusOK, models.Ok)
	case "leaderboard":
		if len(parts) != 3 {
			respondError(ctx, fasthttp.StatusNotFound, "not found")
			return
		}
		ws.handleLeaderboard(ctx, parts[2])
	case "rank":
		if len(parts) != 4 {
			respondError(ctx, fasthttp.StatusNotFound, "not found")
			return
		}
		ws.handleRank(ctx, parts[2], parts[3])
	default:
		respondError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

func (ws *Webserver) handleRank(ctx *fasthttp.RequestCtx, guildID, userID string) {
	rec, err := ws.db.GetUser(userID, guildID)
	if err != nil {
		if dberr.IsNotFound(err) {
			respondError(ctx, fasthttp.StatusNotFound, "no record")
			return
		}
		log.Error("rank lookup failed", "err", err)
		respondError(ctx, fasthttp.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(ctx, fasthttp.StatusOK, ws.rankResponse(rec))
}

func (ws *Webserver) handleLeaderboard(ctx *fasthttp.RequestCtx, guildID string) {
	limit := 10
	if v := ctx.QueryArgs().Peek("limit"); v != nil {
		n, err := strconv.Atoi(string(v))
		if err != nil || n < 1 || n > 100 {
			respondError(ctx, fasthttp.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	recs, err := ws.db.GetLeaderboard(guildID, limit)
	if err != nil {
		log.Error("leaderboard lookup failed", "err", err)
		respondError(ctx, fasthttp.StatusInternalServerError, "internal error")
		return
	}

	res := models.LeaderboardResponse{
		GuildID: guildID,
		Entries: make([]models.RankResponse, 0, len(recs)),
	}
	for _, rec := range recs {
		res.Entries = append(res.Entries, ws.rankResponse(rec))
	}

	respondJSON(ctx, fasthttp.StatusOK, res)
}

func (ws *Webserver) rankResponse(rec *models.UserProgress) models.RankResponse {
	prog := ws.lvl.Curve().Progress(rec.XP, rec.Level)
	return models.RankResponse{
		UserID:        rec.UserID,
		GuildID:       rec.GuildID,
		XP:            rec.XP,
		Level:         rec.Level,
		TotalMessages: rec.TotalMessages,
		VoiceMinutes:  rec.VoiceMinutes,
		CurrentXP:     prog.CurrentLevelXP,
		NextLevelXP:   prog.NextLevelXP,
		Percent:       prog.Percent,
	}
}

func respondJSON(ctx *fasthttp.RequestCtx, code int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

func respondError(ctx *fasthttp.RequestCtx, code int, msg string) {
	respondJSON(ctx, code, models.Error{
		Error: msg,
		Code:  code,
	})
}
