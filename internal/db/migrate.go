package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS roadmaps (
		id                     TEXT PRIMARY KEY,
		case_id                TEXT NOT NULL,
		current_phase          TEXT NOT NULL DEFAULT 'pre_filing'
		                       CHECK(current_phase IN ('pre_filing','filing','confirmation','distribution','closure')),
		status                 TEXT NOT NULL DEFAULT 'draft'
		                       CHECK(status IN ('draft','active','paused','blocked','completed','abandoned','escalated')),
		actual_completion_date TEXT,
		version                INTEGER NOT NULL DEFAULT 0,
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_roadmaps_case ON roadmaps(case_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id               TEXT PRIMARY KEY,
		roadmap_id       TEXT NOT NULL REFERENCES roadmaps(id) ON DELETE CASCADE,
		code             TEXT NOT NULL DEFAULT '',
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		category         TEXT NOT NULL
		                 CHECK(category IN ('identity','family','assets','forms','filing','gazette','court','distribution','closure')),
		priority         TEXT NOT NULL DEFAULT 'medium'
		                 CHECK(priority IN ('critical','high','medium','low')),
		order_index      INTEGER NOT NULL DEFAULT 0,
		status           TEXT NOT NULL DEFAULT 'pending'
		                 CHECK(status IN ('locked','pending','in_progress','blocked','completed','skipped','waived')),
		mandatory        INTEGER NOT NULL DEFAULT 1,
		estimated_min    INTEGER NOT NULL DEFAULT 0,
		due_date         TEXT,
		started_at       TEXT,
		completed_at     TEXT,
		skipped_at       TEXT,
		is_overdue       INTEGER NOT NULL DEFAULT 0,
		requires_proof   INTEGER NOT NULL DEFAULT 0,
		proof_types      TEXT NOT NULL DEFAULT '',
		proof_type       TEXT NOT NULL DEFAULT '',
		proof_reference  TEXT NOT NULL DEFAULT '',
		related_risk_ids TEXT NOT NULL DEFAULT '',
		blocking_risk_id TEXT NOT NULL DEFAULT '',
		started_by       TEXT NOT NULL DEFAULT '',
		completed_by     TEXT NOT NULL DEFAULT '',
		skip_reason      TEXT NOT NULL DEFAULT '',
		block_reason     TEXT NOT NULL DEFAULT '',
		notes            TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_roadmap ON tasks(roadmap_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,

	`CREATE TABLE IF NOT EXISTS task_dependencies (
		roadmap_id          TEXT NOT NULL REFERENCES roadmaps(id) ON DELETE CASCADE,
		predecessor_task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		successor_task_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		PRIMARY KEY (predecessor_task_id, successor_task_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_deps_roadmap ON task_dependencies(roadmap_id)`,

	`CREATE TABLE IF NOT EXISTS phase_history (
		roadmap_id    TEXT NOT NULL REFERENCES roadmaps(id) ON DELETE CASCADE,
		position      INTEGER NOT NULL,
		phase         TEXT NOT NULL,
		entered_at    TEXT NOT NULL,
		exited_at     TEXT,
		duration_days INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (roadmap_id, position)
	)`,

	// Phase thresholds are per-roadmap configuration, not derived state.
	`CREATE TABLE IF NOT EXISTS phase_thresholds (
		roadmap_id   TEXT NOT NULL REFERENCES roadmaps(id) ON DELETE CASCADE,
		phase        TEXT NOT NULL,
		required_pct REAL NOT NULL,
		PRIMARY KEY (roadmap_id, phase)
	)`,
}
