package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"GasSentinel/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the API can read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			source         TEXT,
			trigger_type   TEXT,
			rooms          INTEGER,
			critical_rooms INTEGER,
			actions        INTEGER,
			total_savings  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS room_forecasts (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id              TEXT NOT NULL,
			room                TEXT NOT NULL,
			error               TEXT,
			regime              TEXT,
			current_psi         REAL,
			avg_daily_burn      REAL,
			volatility          TEXT,
			days_until_critical REAL,
			days_until_empty    REAL,
			recommendation      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_room_forecasts_run ON room_forecasts(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_room_forecasts_room ON room_forecasts(room)`,

		`CREATE TABLE IF NOT EXISTS plan_actions (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			kind      TEXT NOT NULL,
			action    TEXT,
			room      TEXT,
			from_room TEXT,
			gas_type  TEXT,
			quantity  INTEGER,
			order_day TEXT,
			urgency   TEXT,
			reason    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plan_actions_run ON plan_actions(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(id, timestamp, source, trigger_type, rooms, critical_rooms, actions, total_savings)
		VALUES (?,?,?,?,?,?,?,?)`,
		run.ID.String(), run.GeneratedAt.Unix(), run.Source, run.Trigger,
		run.Rooms, run.CriticalRooms, run.Actions, run.TotalSavings,
	)
	return err
}

func (r *SQLiteRecorder) RecordForecasts(runID uuid.UUID, bundle *model.ForecastBundle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, room := range bundle.Rooms {
		fc := bundle.RoomForecasts[room]
		if fc == nil {
			continue
		}
		// The error variant has no metrics; store NULL rather than zero.
		var regime, volatility, current, burn, critical, empty any
		if !fc.Failed() {
			regime, volatility = string(fc.Regime), string(fc.Volatility)
			current, burn = fc.CurrentPSI, fc.AvgDailyBurn
			critical, empty = fc.DaysUntilCritical, fc.DaysUntilEmpty
		}
		if _, err := tx.Exec(`INSERT INTO room_forecasts
			(run_id, room, error, regime, current_psi, avg_daily_burn, volatility,
			 days_until_critical, days_until_empty, recommendation)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			runID.String(), fc.Room, fc.Error, regime, current, burn,
			volatility, critical, empty, string(fc.Recommendation),
		); err != nil {
			return fmt.Errorf("insert forecast %s: %w", room, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordPlan(runID uuid.UUID, plan *model.ActionPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	insertOrder := func(kind string, a model.OrderAction) error {
		_, err := tx.Exec(`INSERT INTO plan_actions
			(run_id, kind, action, room, gas_type, quantity, order_day, urgency, reason)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			runID.String(), kind, string(a.Action), a.Room, a.GasType, a.Quantity,
			a.OrderDay, string(a.Urgency), a.Reason,
		)
		return err
	}
	for _, a := range plan.ImmediateActions {
		if err := insertOrder("IMMEDIATE", a); err != nil {
			return fmt.Errorf("insert immediate action: %w", err)
		}
	}
	for _, a := range plan.RoutineOrders {
		if err := insertOrder("ROUTINE", a); err != nil {
			return fmt.Errorf("insert routine order: %w", err)
		}
	}
	for _, re := range plan.Reallocations {
		if _, err := tx.Exec(`INSERT INTO plan_actions
			(run_id, kind, action, room, from_room, gas_type, quantity, urgency, reason)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			runID.String(), "REALLOCATION", "MOVE", re.To, re.From, re.GasType, 1,
			string(re.Urgency), re.Reason,
		); err != nil {
			return fmt.Errorf("insert reallocation: %w", err)
		}
	}
	return tx.Commit()
}

// CountRows returns the number of rows in table; used by tooling and tests.
func (r *SQLiteRecorder) CountRows(table string) (int, error) {
	switch table {
	case "runs", "room_forecasts", "plan_actions":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int
	err := r.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
