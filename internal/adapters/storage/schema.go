package storage

// Tres tablas append-only, cada una indexada por (fixture_id, recorded_at).
// recorded_at se guarda como texto UTC de ancho fijo para que el orden
// lexicográfico coincida con el cronológico en ambos motores.

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS real_time_predictions (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    prediction_id        TEXT    NOT NULL,
    cycle_id             TEXT    NOT NULL DEFAULT '',
    fixture_id           INTEGER NOT NULL,
    recorded_at          TEXT    NOT NULL,
    elapsed_time         INTEGER NOT NULL DEFAULT 0,
    home_team            TEXT    NOT NULL DEFAULT '',
    away_team            TEXT    NOT NULL DEFAULT '',
    league               TEXT    NOT NULL DEFAULT '',
    current_score        TEXT    NOT NULL DEFAULT '0-0',
    home_goals           INTEGER NOT NULL DEFAULT 0,
    away_goals           INTEGER NOT NULL DEFAULT 0,
    home_win_prob        REAL    NOT NULL DEFAULT 0,
    draw_prob            REAL    NOT NULL DEFAULT 0,
    away_win_prob        REAL    NOT NULL DEFAULT 0,
    over_2_5_prob        REAL    NOT NULL DEFAULT 0,
    btts_prob            REAL    NOT NULL DEFAULT 0,
    expected_home_goals  REAL    NOT NULL DEFAULT 0,
    expected_away_goals  REAL    NOT NULL DEFAULT 0,
    expected_total_goals REAL    NOT NULL DEFAULT 0,
    confidence_score     REAL    NOT NULL DEFAULT 0,
    odds_source          TEXT    NOT NULL DEFAULT '',
    value_bets_json      TEXT    NOT NULL DEFAULT '[]',
    live_stats_json      TEXT
);

CREATE TABLE IF NOT EXISTS live_statistics (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    fixture_id      INTEGER NOT NULL,
    recorded_at     TEXT    NOT NULL,
    elapsed_time    INTEGER NOT NULL DEFAULT 0,
    statistics_json TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS live_odds (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    fixture_id  INTEGER NOT NULL,
    recorded_at TEXT    NOT NULL,
    bookmaker   TEXT    NOT NULL,
    source      TEXT    NOT NULL DEFAULT '',
    odds_json   TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pred_fixture_at  ON real_time_predictions(fixture_id, recorded_at DESC);
CREATE INDEX IF NOT EXISTS idx_pred_at          ON real_time_predictions(recorded_at DESC);
CREATE INDEX IF NOT EXISTS idx_stats_fixture_at ON live_statistics(fixture_id, recorded_at DESC);
CREATE INDEX IF NOT EXISTS idx_odds_fixture_at  ON live_odds(fixture_id, recorded_at DESC);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS real_time_predictions (
    id                   BIGSERIAL PRIMARY KEY,
    prediction_id        TEXT             NOT NULL,
    cycle_id             TEXT             NOT NULL DEFAULT '',
    fixture_id           BIGINT           NOT NULL,
    recorded_at          TEXT             NOT NULL,
    elapsed_time         INTEGER          NOT NULL DEFAULT 0,
    home_team            TEXT             NOT NULL DEFAULT '',
    away_team            TEXT             NOT NULL DEFAULT '',
    league               TEXT             NOT NULL DEFAULT '',
    current_score        TEXT             NOT NULL DEFAULT '0-0',
    home_goals           INTEGER          NOT NULL DEFAULT 0,
    away_goals           INTEGER          NOT NULL DEFAULT 0,
    home_win_prob        DOUBLE PRECISION NOT NULL DEFAULT 0,
    draw_prob            DOUBLE PRECISION NOT NULL DEFAULT 0,
    away_win_prob        DOUBLE PRECISION NOT NULL DEFAULT 0,
    over_2_5_prob        DOUBLE PRECISION NOT NULL DEFAULT 0,
    btts_prob            DOUBLE PRECISION NOT NULL DEFAULT 0,
    expected_home_goals  DOUBLE PRECISION NOT NULL DEFAULT 0,
    expected_away_goals  DOUBLE PRECISION NOT NULL DEFAULT 0,
    expected_total_goals DOUBLE PRECISION NOT NULL DEFAULT 0,
    confidence_score     DOUBLE PRECISION NOT NULL DEFAULT 0,
    odds_source          TEXT             NOT NULL DEFAULT '',
    value_bets_json      TEXT             NOT NULL DEFAULT '[]',
    live_stats_json      TEXT
);

CREATE TABLE IF NOT EXISTS live_statistics (
    id              BIGSERIAL PRIMARY KEY,
    fixture_id      BIGINT  NOT NULL,
    recorded_at     TEXT    NOT NULL,
    elapsed_time    INTEGER NOT NULL DEFAULT 0,
    statistics_json TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS live_odds (
    id          BIGSERIAL PRIMARY KEY,
    fixture_id  BIGINT NOT NULL,
    recorded_at TEXT   NOT NULL,
    bookmaker   TEXT   NOT NULL,
    source      TEXT   NOT NULL DEFAULT '',
    odds_json   TEXT   NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pred_fixture_at  ON real_time_predictions(fixture_id, recorded_at DESC);
CREATE INDEX IF NOT EXISTS idx_pred_at          ON real_time_predictions(recorded_at DESC);
CREATE INDEX IF NOT EXISTS idx_stats_fixture_at ON live_statistics(fixture_id, recorded_at DESC);
CREATE INDEX IF NOT EXISTS idx_odds_fixture_at  ON live_odds(fixture_id, recorded_at DESC);
`
