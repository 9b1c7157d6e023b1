package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/zekurio/ascent/internal/models"
	"github.com/zekurio/ascent/internal/services/database"
	"github.com/zekurio/ascent/internal/services/database/dberr"
	"github.com/zekurio/ascent/internal/util/embedded"
	"github.com/zekurio/ascent/pkg/perms"
)

type Postgres struct {
	db *sql.DB
}

var (
	_           database.Database = (*Postgres)(nil)
	guildTables                   = []string{"user_progress", "permissions", "role_rewards"}
)

const userProgressCols = `user_id, guild_id, xp, level, total_messages, voice_minutes,
	voice_join_time, last_voice_xp_time, last_message_time`

func InitPostgres(c models.PostgresConfig) (*Postgres, error) {
	var (
		p   Postgres
		err error
	)

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", c.Host, c.Port, c.Username, c.Password, c.Database)
	p.db, err = sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	err = p.db.Ping()
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(embedded.Migrations)
	goose.SetDialect("postgres")
	goose.SetLogger(log.StandardLog())
	err = goose.Up(p.db, "migrations")
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

// USER PROGRESS

func (p *Postgres) GetUser(userID, guildID string) (*models.UserProgress, error) {
	row := p.db.QueryRow(
		fmt.Sprintf(`SELECT %s FROM user_progress WHERE user_id = $1 AND guild_id = $2`, userProgressCols),
		userID, guildID)

	rec, err := scanUserProgress(row)
	if err != nil {
		return nil, p.wrapErr(err)
	}

	return rec, nil
}

func (p *Postgres) UpsertMessageXP(userID, guildID string, amount int64, now, cutoff time.Time) (*models.UserProgress, bool, error) {
	row := p.db.QueryRow(`
		INSERT INTO user_progress (user_id, guild_id, xp, total_messages, last_message_time)
		VALUES ($1, $2, $3, 1, $4)
		ON CONFLICT (user_id, guild_id) DO UPDATE
		SET xp = user_progress.xp + $3,
		    total_messages = user_progress.total_messages + 1,
		    last_message_time = $4
		WHERE user_progress.last_message_time IS NULL OR user_progress.last_message_time <= $5
		RETURNING xp, level`,
		userID, guildID, amount, now, cutoff)

	rec := &models.UserProgress{UserID: userID, GuildID: guildID, LastMessageTime: now}
	err := row.Scan(&rec.XP, &rec.Level)
	if err == sql.ErrNoRows {
		// still on cooldown
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return rec, true, nil
}

func (p *Postgres) AddVoiceXP(userID, guildID string, amount int64, minutes int, creditedThrough time.Time) (*models.UserProgress, error) {
	row := p.db.QueryRow(`
		UPDATE user_progress
		SET xp = xp + $3,
		    voice_minutes = voice_minutes + $4,
		    last_voice_xp_time = $5
		WHERE user_id = $1 AND guild_id = $2
		RETURNING xp, level`,
		userID, guildID, amount, minutes, creditedThrough)

	rec := &models.UserProgress{UserID: userID, GuildID: guildID, LastVoiceXPTime: creditedThrough}
	err := row.Scan(&rec.XP, &rec.Level)
	if err != nil {
		return nil, p.wrapErr(err)
	}

	return rec, nil
}

func (p *Postgres) SetLevel(userID, guildID string, level int) error {
	_, err := p.db.Exec(
		`UPDATE user_progress SET level = $3 WHERE user_id = $1 AND guild_id = $2`,
		userID, guildID, level)
	return err
}

func (p *Postgres) SetXP(userID, guildID string, xp int64, level int) error {
	_, err := p.db.Exec(`
		INSERT INTO user_progress (user_id, guild_id, xp, level)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id) DO UPDATE
		SET xp = $3, level = $4`,
		userID, guildID, xp, level)
	return err
}

func (p *Postgres) AddXP(userID, guildID string, delta int64) (*models.UserProgress, error) {
	row := p.db.QueryRow(`
		INSERT INTO user_progress (user_id, guild_id, xp)
		VALUES ($1, $2, GREATEST(0, $3))
		ON CONFLICT (user_id, guild_id) DO UPDATE
		SET xp = GREATEST(0, user_progress.xp + $3)
		RETURNING xp, level`,
		userID, guildID, delta)

	rec := &models.UserProgress{UserID: userID, GuildID: guildID}
	err := row.Scan(&rec.XP, &rec.Level)
	if err != nil {
		return nil, p.wrapErr(err)
	}

	return rec, nil
}

// VOICE MARKERS

func (p *Postgres) SetVoiceJoinTime(userID, guildID string, ts time.Time) error {
	_, err := p.db.Exec(`
		INSERT INTO user_progress (user_id, guild_id, voice_join_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, guild_id) DO UPDATE
		SET voice_join_time = $3, last_voice_xp_time = NULL`,
		userID, guildID, ts)
	return err
}

func (p *Postgres) RegisterVoiceJoin(userID, guildID string, ts time.Time) error {
	_, err := p.db.Exec(`
		INSERT INTO user_progress (user_id, guild_id, voice_join_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, guild_id) DO UPDATE
		SET voice_join_time = COALESCE(user_progress.voice_join_time, $3),
		    last_voice_xp_time = CASE
		        WHEN user_progress.voice_join_time IS NULL THEN NULL
		        ELSE user_progress.last_voice_xp_time
		    END`,
		userID, guildID, ts)
	return err
}

func (p *Postgres) ClearVoiceJoinTime(userID, guildID string) error {
	_, err := p.db.Exec(`
		UPDATE user_progress
		SET voice_join_time = NULL, last_voice_xp_time = NULL
		WHERE user_id = $1 AND guild_id = $2`,
		userID, guildID)
	return err
}

func (p *Postgres) ClearAllVoiceJoinTimes(guildID string) error {
	_, err := p.db.Exec(`
		UPDATE user_progress
		SET voice_join_time = NULL, last_voice_xp_time = NULL
		WHERE guild_id = $1 AND voice_join_time IS NOT NULL`,
		guildID)
	return err
}

func (p *Postgres) RestampAllVoiceJoinTimes(guildID string, ts time.Time) error {
	_, err := p.db.Exec(`
		UPDATE user_progress
		SET voice_join_time = $2, last_voice_xp_time = NULL
		WHERE guild_id = $1 AND voice_join_time IS NOT NULL`,
		guildID, ts)
	return err
}

func (p *Postgres) ListTrackedInVoice(guildID string) ([]*models.UserProgress, error) {
	rows, err := p.db.Query(
		fmt.Sprintf(`SELECT %s FROM user_progress WHERE guild_id = $1 AND voice_join_time IS NOT NULL`, userProgressCols),
		guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUserProgress(rows)
}

func (p *Postgres) GetLeaderboard(guildID string, limit int) ([]*models.UserProgress, error) {
	rows, err := p.db.Query(
		fmt.Sprintf(`SELECT %s FROM user_progress WHERE guild_id = $1 ORDER BY xp DESC LIMIT $2`, userProgressCols),
		guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUserProgress(rows)
}

func (p *Postgres) DeleteUser(userID, guildID string) error {
	_, err := p.db.Exec(
		`DELETE FROM user_progress WHERE user_id = $1 AND guild_id = $2`,
		userID, guildID)
	return err
}

// ROLE REWARDS

func (p *Postgres) GetRoleRewards(guildID string) (*models.RoleRewards, error) {
	rawData, err := GetValue[string](p, "role_rewards", "json_data", "guild_id", guildID)
	if err != nil {
		return nil, err
	}
	if rawData == "" {
		return nil, dberr.ErrNotFound
	}

	r, err := models.UnmarshalRewards(rawData)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

func (p *Postgres) SetRoleRewards(r models.RoleRewards) error {
	rawData, err := models.MarshalRewards(r)
	if err != nil {
		return err
	}

	return SetValue(p, "role_rewards", "json_data", rawData, "guild_id", r.GuildID)
}

// PERMISSIONS

func (p *Postgres) GetPermissions(guildID string) (map[string]perms.PermsArray, error) {
	results := make(map[string]perms.PermsArray)
	rows, err := p.db.Query(`SELECT role_id, perms FROM permissions WHERE guild_id = $1`, guildID)
	if err != nil {
		return nil, p.wrapErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var roleID string
		var permStr string

		err := rows.Scan(&roleID, &permStr)
		if err != nil {
			return nil, p.wrapErr(err)
		}

		results[roleID] = strings.Split(permStr, ",")
	}

	return results, nil
}

func (p *Postgres) SetPermissions(guildID, roleID string, pa perms.PermsArray) error {
	if len(pa) == 0 {
		_, err := p.db.Exec(`DELETE FROM permissions WHERE guild_id = $1 AND role_id = $2`, guildID, roleID)
		return err
	}

	return SetValue(p, "permissions", "perms", strings.Join(pa, ","), "guild_id", guildID, "role_id", roleID)
}

// DATA MANAGEMENT

func (p *Postgres) FlushGuildData(guildID string) error {
	return p.tx(func(tx *sql.Tx) error {
		var (
			err          error
			failedTables = []string{}
		)

		for _, table := range guildTables {
			_, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE guild_id = $1`, table), guildID)
			if err != nil {
				failedTables = append(failedTables, table)
			}
		}

		if len(failedTables) > 0 || err != nil {
			return fmt.Errorf("failed to flush guild data from tables: %v", failedTables)
		}

		return nil
	})
}

//
// HELPERS
//

func (p *Postgres) tx(f func(*sql.Tx) error) error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}

	if err = f(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (p *Postgres) wrapErr(err error) error {
	if err != nil && err == sql.ErrNoRows {
		return dberr.ErrNotFound
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUserProgress(row scanner) (*models.UserProgress, error) {
	var (
		rec                          models.UserProgress
		joinTime, voiceTime, msgTime sql.NullTime
	)

	err := row.Scan(&rec.UserID, &rec.GuildID, &rec.XP, &rec.Level, &rec.TotalMessages,
		&rec.VoiceMinutes, &joinTime, &voiceTime, &msgTime)
	if err != nil {
		return nil, err
	}

	if joinTime.Valid {
		rec.VoiceJoinTime = joinTime.Time
	}
	if voiceTime.Valid {
		rec.LastVoiceXPTime = voiceTime.Time
	}
	if msgTime.Valid {
		rec.LastMessageTime = msgTime.Time
	}

	return &rec, nil
}

func collectUserProgress(rows *sql.Rows) ([]*models.UserProgress, error) {
	var results []*models.UserProgress
	for rows.Next() {
		rec, err := scanUserProgress(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}

	return results, rows.Err()
}

// GetValue retrieves a specific value from a PostgreSQL table.
func GetValue[TVal, TWv any](t *Postgres, table, valueKey, whereKey string, whereValue TWv) (TVal, error) {
	var value TVal
	query := fmt.Sprintf(`SELECT "%s" FROM %s WHERE "%s" = $1`, valueKey, table, whereKey)
	err := t.db.QueryRow(query, whereValue).Scan(&value)
	return value, t.wrapErr(err)
}

// SetValue updates a specific value in a PostgreSQL table, or inserts
// a new row if none is found. Additional where pairs extend the key.
func SetValue[TVal, TWv any](t *Postgres, table, valueKey string, value TVal, whereKey string, whereValue TWv, extraPairs ...any) error {
	whereClause := fmt.Sprintf(`"%s" = $2`, whereKey)
	args := []any{value, whereValue}
	cols := []string{whereKey}
	for i := 0; i < len(extraPairs)-1; i += 2 {
		cols = append(cols, extraPairs[i].(string))
		args = append(args, extraPairs[i+1])
		whereClause += fmt.Sprintf(` AND "%s" = $%d`, extraPairs[i], len(args))
	}

	updateQuery := fmt.Sprintf(`UPDATE %s SET "%s" = $1 WHERE %s`, table, valueKey, whereClause)
	result, err := t.db.Exec(updateQuery, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		colNames := ""
		placeholders := ""
		insertArgs := []any{}
		for i, c := range cols {
			colNames += fmt.Sprintf(`"%s", `, c)
			placeholders += fmt.Sprintf("$%d, ", i+1)
			insertArgs = append(insertArgs, args[i+1])
		}
		colNames += fmt.Sprintf(`"%s"`, valueKey)
		placeholders += fmt.Sprintf("$%d", len(cols)+1)
		insertArgs = append(insertArgs, value)

		insertQuery := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, table, colNames, placeholders)
		_, err = t.db.Exec(insertQuery, insertArgs...)
	}

	return err
}
