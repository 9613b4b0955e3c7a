package storage

// store.go — persistencia append-only de predicciones y snapshots en vivo.
//
// Cada insert es una sentencia autocommit independiente: no hay transacciones
// que abarquen varios inserts ni ninguna ruta de UPDATE/DELETE.
// El mismo código sirve a SQLite (modernc, sin CGo) y a PostgreSQL (lib/pq);
// solo cambian el schema y los placeholders.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/livevalue/internal/domain"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	defaultQueryLimit = 100
	timeLayout        = "2006-01-02T15:04:05.000000000Z"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// SQLStore implementa ports.Store sobre database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// NewSQLiteStore abre (o crea) la base SQLite en la ruta dada y aplica el schema.
func NewSQLiteStore(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLStore{db: db, dialect: dialectSQLite, now: time.Now}, nil
}

// NewPostgresStore conecta a PostgreSQL con el DSN dado y aplica el schema.
func NewPostgresStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage.NewPostgresStore: open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewPostgresStore: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewPostgresStore: apply schema: %w", err)
	}
	return &SQLStore{db: db, dialect: dialectPostgres, now: time.Now}, nil
}

// Open elige el driver según el nombre: "sqlite" o "postgres".
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLiteStore(dsn)
	case "postgres":
		return NewPostgresStore(ctx, dsn)
	default:
		return nil, fmt.Errorf("storage.Open: unknown driver %q", driver)
	}
}

// SavePrediction inserta una fila por predicción. recorded_at es LastUpdated
// de la predicción, o el instante actual si no viene informado.
func (s *SQLStore) SavePrediction(ctx context.Context, p domain.MatchPrediction) error {
	bets := p.ValueBets
	if bets == nil {
		bets = []domain.ValueBet{}
	}
	betsJSON, err := json.Marshal(bets)
	if err != nil {
		return fmt.Errorf("storage.SavePrediction: encode value bets: %w", err)
	}

	var liveStats any
	if len(p.LiveStats) > 0 {
		liveStats = string(p.LiveStats)
	}

	recordedAt := p.LastUpdated
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO real_time_predictions
			(prediction_id, cycle_id, fixture_id, recorded_at, elapsed_time,
			 home_team, away_team, league, current_score, home_goals, away_goals,
			 home_win_prob, draw_prob, away_win_prob, over_2_5_prob, btts_prob,
			 expected_home_goals, expected_away_goals, expected_total_goals,
			 confidence_score, odds_source, value_bets_json, live_stats_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID, p.CycleID, p.FixtureID, formatTime(recordedAt), p.Elapsed,
		p.HomeTeam, p.AwayTeam, p.League, p.Score.String(), p.Score.Home, p.Score.Away,
		p.Probs.HomeWin, p.Probs.Draw, p.Probs.AwayWin, p.Probs.Over25, p.Probs.BTTS,
		p.Probs.ExpectedHomeGoals, p.Probs.ExpectedAwayGoals, p.Probs.ExpectedTotalGoals,
		p.Probs.Confidence, string(p.OddsSource), string(betsJSON), liveStats,
	)
	if err != nil {
		return fmt.Errorf("storage.SavePrediction: fixture %d: %w", p.FixtureID, err)
	}
	return nil
}

// SaveLiveSnapshot inserta las estadísticas (si hay) y una fila por casa de apuestas.
// Un fallo no deshace los inserts anteriores: cada uno es independiente.
func (s *SQLStore) SaveLiveSnapshot(ctx context.Context, fixtureID int64, elapsed int, stats []domain.TeamStatistics, odds []domain.BookmakerOdds) error {
	at := formatTime(s.now())

	if len(stats) > 0 {
		statsJSON, err := json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("storage.SaveLiveSnapshot: encode statistics: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, s.rebind(`
			INSERT INTO live_statistics (fixture_id, recorded_at, elapsed_time, statistics_json)
			VALUES (?, ?, ?, ?)`),
			fixtureID, at, elapsed, string(statsJSON),
		); err != nil {
			return fmt.Errorf("storage.SaveLiveSnapshot: insert statistics for fixture %d: %w", fixtureID, err)
		}
	}

	for _, bm := range odds {
		oddsJSON, err := json.Marshal(bm.Bets)
		if err != nil {
			return fmt.Errorf("storage.SaveLiveSnapshot: encode odds: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, s.rebind(`
			INSERT INTO live_odds (fixture_id, recorded_at, bookmaker, source, odds_json)
			VALUES (?, ?, ?, ?, ?)`),
			fixtureID, at, bm.Bookmaker.Name, string(bm.Source), string(oddsJSON),
		); err != nil {
			return fmt.Errorf("storage.SaveLiveSnapshot: insert odds for fixture %d: %w", fixtureID, err)
		}
	}
	return nil
}

// QueryPredictions devuelve las predicciones más recientes primero.
func (s *SQLStore) QueryPredictions(ctx context.Context, fixtureID *int64, limit int) ([]domain.PredictionRecord, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	query := `
		SELECT id, prediction_id, cycle_id, fixture_id, recorded_at, elapsed_time,
		       home_team, away_team, league, home_goals, away_goals,
		       home_win_prob, draw_prob, away_win_prob, over_2_5_prob, btts_prob,
		       expected_home_goals, expected_away_goals, expected_total_goals,
		       confidence_score, odds_source, value_bets_json, live_stats_json
		FROM real_time_predictions`
	args := []any{}
	if fixtureID != nil {
		query += ` WHERE fixture_id = ?`
		args = append(args, *fixtureID)
	}
	query += ` ORDER BY recorded_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("storage.QueryPredictions: %w", err)
	}
	defer rows.Close()

	var out []domain.PredictionRecord
	for rows.Next() {
		var (
			r          domain.PredictionRecord
			recordedAt string
			oddsSource string
			betsJSON   string
			liveStats  sql.NullString
		)
		if err := rows.Scan(
			&r.RowID, &r.ID, &r.CycleID, &r.FixtureID, &recordedAt, &r.Elapsed,
			&r.HomeTeam, &r.AwayTeam, &r.League, &r.Score.Home, &r.Score.Away,
			&r.Probs.HomeWin, &r.Probs.Draw, &r.Probs.AwayWin, &r.Probs.Over25, &r.Probs.BTTS,
			&r.Probs.ExpectedHomeGoals, &r.Probs.ExpectedAwayGoals, &r.Probs.ExpectedTotalGoals,
			&r.Probs.Confidence, &oddsSource, &betsJSON, &liveStats,
		); err != nil {
			return nil, fmt.Errorf("storage.QueryPredictions: scan: %w", err)
		}

		r.RecordedAt, err = time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("storage.QueryPredictions: row %d recorded_at %q: %w", r.RowID, recordedAt, err)
		}
		r.LastUpdated = r.RecordedAt
		r.OddsSource = domain.OddsSource(oddsSource)
		if err := json.Unmarshal([]byte(betsJSON), &r.ValueBets); err != nil {
			return nil, fmt.Errorf("storage.QueryPredictions: row %d value bets: %w", r.RowID, err)
		}
		if liveStats.Valid && liveStats.String != "" {
			r.LiveStats = json.RawMessage(liveStats.String)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close cierra la conexión a la base de datos limpiamente.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind convierte los placeholders '?' al formato $N de PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
