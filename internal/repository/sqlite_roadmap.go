package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/db"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, code, title, description, category, priority, order_index,
		status, mandatory, estimated_min, due_date, started_at, completed_at, skipped_at,
		is_overdue, requires_proof, proof_types, proof_type, proof_reference,
		related_risk_ids, blocking_risk_id, started_by, completed_by,
		skip_reason, block_reason, notes, created_at, updated_at`

// SQLiteRoadmapRepo implements RoadmapRepo against a DBTX, so the same code
// runs directly on a *sql.DB or inside a unit-of-work transaction.
type SQLiteRoadmapRepo struct {
	db db.DBTX
}

// NewSQLiteRoadmapRepo creates a new SQLiteRoadmapRepo.
func NewSQLiteRoadmapRepo(dbtx db.DBTX) *SQLiteRoadmapRepo {
	return &SQLiteRoadmapRepo{db: dbtx}
}

// Save writes the roadmap and its full task collection in one shot. The
// stored version must match the loaded version or the save is rejected with
// ErrVersionConflict; on success the in-memory version is bumped.
func (r *SQLiteRoadmapRepo) Save(ctx context.Context, rm *domain.Roadmap) error {
	var stored int
	err := r.db.QueryRowContext(ctx, `SELECT version FROM roadmaps WHERE id = ?`, rm.ID).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := r.insertRoadmap(ctx, rm); err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("checking roadmap version: %w", err)
	default:
		if stored != rm.Version {
			return ErrVersionConflict
		}
		if err := r.updateRoadmap(ctx, rm); err != nil {
			return err
		}
	}

	if err := r.replaceChildren(ctx, rm); err != nil {
		return err
	}
	rm.Version++
	return nil
}

func (r *SQLiteRoadmapRepo) insertRoadmap(ctx context.Context, rm *domain.Roadmap) error {
	query := `INSERT INTO roadmaps (id, case_id, current_phase, status,
		actual_completion_date, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rm.ID,
		rm.CaseID,
		string(rm.CurrentPhase),
		string(rm.Status),
		nullableTimeToString(rm.ActualCompletionDate, time.RFC3339),
		rm.Version+1,
		rm.CreatedAt.Format(time.RFC3339),
		rm.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting roadmap: %w", err)
	}
	return nil
}

func (r *SQLiteRoadmapRepo) updateRoadmap(ctx context.Context, rm *domain.Roadmap) error {
	query := `UPDATE roadmaps SET case_id = ?, current_phase = ?, status = ?,
		actual_completion_date = ?, version = ?, updated_at = ?
		WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		rm.CaseID,
		string(rm.CurrentPhase),
		string(rm.Status),
		nullableTimeToString(rm.ActualCompletionDate, time.RFC3339),
		rm.Version+1,
		rm.UpdatedAt.Format(time.RFC3339),
		rm.ID,
		rm.Version,
	)
	if err != nil {
		return fmt.Errorf("updating roadmap: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// replaceChildren rewrites the task set, dependency edges, phase history and
// thresholds wholesale. The aggregate is small (tens of tasks) and the full
// rewrite keeps the write path trivially atomic inside one transaction.
func (r *SQLiteRoadmapRepo) replaceChildren(ctx context.Context, rm *domain.Roadmap) error {
	for _, stmt := range []string{
		`DELETE FROM task_dependencies WHERE roadmap_id = ?`,
		`DELETE FROM tasks WHERE roadmap_id = ?`,
		`DELETE FROM phase_history WHERE roadmap_id = ?`,
		`DELETE FROM phase_thresholds WHERE roadmap_id = ?`,
	} {
		if _, err := r.db.ExecContext(ctx, stmt, rm.ID); err != nil {
			return fmt.Errorf("clearing roadmap children: %w", err)
		}
	}

	for _, t := range rm.Tasks {
		if err := r.insertTask(ctx, rm.ID, t); err != nil {
			return err
		}
	}
	for _, t := range rm.Tasks {
		for _, dep := range t.DependsOn {
			if _, err := r.db.ExecContext(ctx,
				`INSERT INTO task_dependencies (roadmap_id, predecessor_task_id, successor_task_id) VALUES (?, ?, ?)`,
				rm.ID, dep, t.ID); err != nil {
				return fmt.Errorf("inserting dependency %s -> %s: %w", dep, t.ID, err)
			}
		}
	}

	for i, entry := range rm.PhaseHistory {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO phase_history (roadmap_id, position, phase, entered_at, exited_at, duration_days) VALUES (?, ?, ?, ?, ?, ?)`,
			rm.ID, i, string(entry.Phase),
			entry.EnteredAt.Format(time.RFC3339),
			nullableTimeToString(entry.ExitedAt, time.RFC3339),
			entry.DurationDays); err != nil {
			return fmt.Errorf("inserting phase history entry %d: %w", i, err)
		}
	}

	for phase, pct := range rm.PhaseThresholds {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO phase_thresholds (roadmap_id, phase, required_pct) VALUES (?, ?, ?)`,
			rm.ID, string(phase), pct); err != nil {
			return fmt.Errorf("inserting phase threshold: %w", err)
		}
	}

	return nil
}

func (r *SQLiteRoadmapRepo) insertTask(ctx context.Context, roadmapID string, t *domain.Task) error {
	var proofType, proofRef string
	if t.Proof != nil {
		proofType = string(t.Proof.Type)
		proofRef = t.Proof.Reference
	}
	query := `INSERT INTO tasks (roadmap_id, ` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		roadmapID,
		t.ID,
		t.Code,
		t.Title,
		t.Description,
		string(t.Category),
		string(t.Priority),
		t.OrderIndex,
		string(t.Status),
		boolToInt(t.Mandatory),
		t.EstimatedDurationMinutes,
		nullableTimeToString(t.DueDate, time.RFC3339),
		nullableTimeToString(t.StartedAt, time.RFC3339),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		nullableTimeToString(t.SkippedAt, time.RFC3339),
		boolToInt(t.IsOverdue),
		boolToInt(t.RequiresProof),
		joinProofTypes(t.AllowedProofTypes),
		proofType,
		proofRef,
		joinIDs(t.RelatedRiskIDs),
		t.BlockingRiskID,
		t.StartedBy,
		t.CompletedBy,
		t.SkipReason,
		t.BlockReason,
		t.Notes,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task %s: %w", t.ID, err)
	}
	return nil
}

// FindByID loads the full aggregate: roadmap row, tasks with dependency
// edges, phase history and thresholds.
func (r *SQLiteRoadmapRepo) FindByID(ctx context.Context, id string) (*domain.Roadmap, error) {
	return r.findOne(ctx, `SELECT id, case_id, current_phase, status,
		actual_completion_date, version, created_at, updated_at
		FROM roadmaps WHERE id = ?`, id)
}

// FindByCaseID loads the roadmap for a case; roadmaps are 1:1 with cases.
func (r *SQLiteRoadmapRepo) FindByCaseID(ctx context.Context, caseID string) (*domain.Roadmap, error) {
	return r.findOne(ctx, `SELECT id, case_id, current_phase, status,
		actual_completion_date, version, created_at, updated_at
		FROM roadmaps WHERE case_id = ?`, caseID)
}

func (r *SQLiteRoadmapRepo) findOne(ctx context.Context, query, arg string) (*domain.Roadmap, error) {
	row := r.db.QueryRowContext(ctx, query, arg)

	var rm domain.Roadmap
	var phase, status, createdAt, updatedAt string
	var completionDate sql.NullString
	if err := row.Scan(&rm.ID, &rm.CaseID, &phase, &status, &completionDate, &rm.Version, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning roadmap: %w", err)
	}
	rm.CurrentPhase = domain.Phase(phase)
	rm.Status = domain.RoadmapStatus(status)
	rm.ActualCompletionDate = parseNullableTime(completionDate, time.RFC3339)
	rm.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rm.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	if err := r.loadTasks(ctx, &rm); err != nil {
		return nil, err
	}
	if err := r.loadPhaseHistory(ctx, &rm); err != nil {
		return nil, err
	}
	if err := r.loadThresholds(ctx, &rm); err != nil {
		return nil, err
	}

	rm.RecomputeProgress()
	return &rm, nil
}

func (r *SQLiteRoadmapRepo) loadTasks(ctx context.Context, rm *domain.Roadmap) error {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE roadmap_id = ? ORDER BY order_index, created_at`
	rows, err := r.db.QueryContext(ctx, query, rm.ID)
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.Task)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return err
		}
		rm.Tasks = append(rm.Tasks, t)
		byID[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating tasks: %w", err)
	}

	depRows, err := r.db.QueryContext(ctx,
		`SELECT predecessor_task_id, successor_task_id FROM task_dependencies WHERE roadmap_id = ? ORDER BY successor_task_id, predecessor_task_id`,
		rm.ID)
	if err != nil {
		return fmt.Errorf("listing task dependencies: %w", err)
	}
	defer depRows.Close()

	for depRows.Next() {
		var pred, succ string
		if err := depRows.Scan(&pred, &succ); err != nil {
			return fmt.Errorf("scanning dependency: %w", err)
		}
		if t, ok := byID[succ]; ok {
			t.DependsOn = append(t.DependsOn, pred)
		}
		if t, ok := byID[pred]; ok {
			t.Blocks = append(t.Blocks, succ)
		}
	}
	return depRows.Err()
}

func (r *SQLiteRoadmapRepo) loadPhaseHistory(ctx context.Context, rm *domain.Roadmap) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT phase, entered_at, exited_at, duration_days FROM phase_history WHERE roadmap_id = ? ORDER BY position`,
		rm.ID)
	if err != nil {
		return fmt.Errorf("listing phase history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var phase, enteredAt string
		var exitedAt sql.NullString
		var entry domain.PhaseHistoryEntry
		if err := rows.Scan(&phase, &enteredAt, &exitedAt, &entry.DurationDays); err != nil {
			return fmt.Errorf("scanning phase history: %w", err)
		}
		entry.Phase = domain.Phase(phase)
		entry.EnteredAt, _ = time.Parse(time.RFC3339, enteredAt)
		entry.ExitedAt = parseNullableTime(exitedAt, time.RFC3339)
		rm.PhaseHistory = append(rm.PhaseHistory, entry)
	}
	return rows.Err()
}

func (r *SQLiteRoadmapRepo) loadThresholds(ctx context.Context, rm *domain.Roadmap) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT phase, required_pct FROM phase_thresholds WHERE roadmap_id = ?`, rm.ID)
	if err != nil {
		return fmt.Errorf("listing phase thresholds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var phase string
		var pct float64
		if err := rows.Scan(&phase, &pct); err != nil {
			return fmt.Errorf("scanning phase threshold: %w", err)
		}
		if rm.PhaseThresholds == nil {
			rm.PhaseThresholds = make(map[domain.Phase]float64)
		}
		rm.PhaseThresholds[domain.Phase(phase)] = pct
	}
	return rows.Err()
}

func scanTask(rows *sql.Rows) (*domain.Task, error) {
	var t domain.Task
	var category, priority, status string
	var dueDate, startedAt, completedAt, skippedAt sql.NullString
	var mandatory, isOverdue, requiresProof int
	var proofTypes, proofType, proofRef, riskIDs string
	var createdAt, updatedAt string

	err := rows.Scan(
		&t.ID,
		&t.Code,
		&t.Title,
		&t.Description,
		&category,
		&priority,
		&t.OrderIndex,
		&status,
		&mandatory,
		&t.EstimatedDurationMinutes,
		&dueDate,
		&startedAt,
		&completedAt,
		&skippedAt,
		&isOverdue,
		&requiresProof,
		&proofTypes,
		&proofType,
		&proofRef,
		&riskIDs,
		&t.BlockingRiskID,
		&t.StartedBy,
		&t.CompletedBy,
		&t.SkipReason,
		&t.BlockReason,
		&t.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Category = domain.TaskCategory(category)
	t.Priority = domain.TaskPriority(priority)
	t.Status = domain.TaskStatus(status)
	t.Mandatory = intToBool(mandatory)
	t.IsOverdue = intToBool(isOverdue)
	t.RequiresProof = intToBool(requiresProof)
	t.AllowedProofTypes = splitProofTypes(proofTypes)
	if proofType != "" || proofRef != "" {
		t.Proof = &domain.ProofReference{Type: domain.ProofType(proofType), Reference: proofRef}
	}
	t.RelatedRiskIDs = splitIDs(riskIDs)
	t.DueDate = parseNullableTime(dueDate, time.RFC3339)
	t.StartedAt = parseNullableTime(startedAt, time.RFC3339)
	t.CompletedAt = parseNullableTime(completedAt, time.RFC3339)
	t.SkippedAt = parseNullableTime(skippedAt, time.RFC3339)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &t, nil
}
