package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/contract"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/cpm"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/db"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/generation"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/repository"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/scheduler"
)

// RepoFactory builds a roadmap repository bound to the given DBTX, so the
// same repository code serves reads on the base connection and writes inside
// a transaction.
type RepoFactory func(db.DBTX) repository.RoadmapRepo

// dailyCost is the default professional cost assumed per critical-path
// workday in analytics.
const dailyCost = 250

type roadmapService struct {
	uow      db.UnitOfWork
	repos    RepoFactory
	readRepo repository.RoadmapRepo
	provider generation.TemplateProvider
	proofs   ProofValidator
	notifier Notifier
	observer CommandObserver
	now      func() time.Time
}

type Option func(*roadmapService)

// WithUnitOfWork overrides the transaction boundary, mainly for failure
// injection in tests.
func WithUnitOfWork(uow db.UnitOfWork) Option {
	return func(s *roadmapService) { s.uow = uow }
}

func WithTemplateProvider(p generation.TemplateProvider) Option {
	return func(s *roadmapService) { s.provider = p }
}

func WithProofValidator(v ProofValidator) Option {
	return func(s *roadmapService) { s.proofs = v }
}

func WithNotifier(n Notifier) Option {
	return func(s *roadmapService) { s.notifier = n }
}

func WithObserver(o CommandObserver) Option {
	return func(s *roadmapService) { s.observer = o }
}

// WithClock fixes the service's notion of now, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *roadmapService) { s.now = now }
}

// NewRoadmapService wires the engine's command surface over a SQLite
// database.
func NewRoadmapService(database *sql.DB, opts ...Option) RoadmapService {
	s := &roadmapService{
		uow:      db.NewSQLiteUnitOfWork(database),
		repos:    func(tx db.DBTX) repository.RoadmapRepo { return repository.NewSQLiteRoadmapRepo(tx) },
		readRepo: repository.NewSQLiteRoadmapRepo(database),
		provider: generation.StandardSuccessionProvider{},
		proofs:   AcceptAllProofs{},
		notifier: NoopNotifier{},
		observer: NoopCommandObserver{},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mutate runs one command against the aggregate: load, apply, save inside a
// single transaction, then emits the produced events after commit.
func (s *roadmapService) mutate(ctx context.Context, name, roadmapID string, fn func(r *domain.Roadmap, now time.Time) ([]Event, error)) error {
	started := s.now()
	var events []Event

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := s.repos(tx)
		r, err := repo.FindByID(ctx, roadmapID)
		if err != nil {
			return err
		}
		events, err = fn(r, s.now())
		if err != nil {
			return err
		}
		return repo.Save(ctx, r)
	})

	s.observer.ObserveCommand(ctx, CommandEvent{
		Name:      name,
		Duration:  s.now().Sub(started),
		Success:   err == nil,
		Err:       err,
		Fields:    map[string]any{"roadmap_id": roadmapID},
		StartedAt: started,
	})
	if err != nil {
		return err
	}
	for _, e := range events {
		s.notifier.Notify(ctx, e)
	}
	return nil
}

func (s *roadmapService) Generate(ctx context.Context, caseID string) (*domain.Roadmap, error) {
	blueprints, err := s.provider.Blueprints(caseID)
	if err != nil {
		return nil, fmt.Errorf("loading blueprints: %w", err)
	}
	now := s.now()
	r, err := generation.BuildRoadmap(caseID, blueprints, now)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return s.repos(tx).Save(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, Event{Kind: EventRoadmapGenerated, RoadmapID: r.ID, CaseID: caseID, Phase: r.CurrentPhase, At: now})
	return r, nil
}

func (s *roadmapService) Get(ctx context.Context, roadmapID string) (*domain.Roadmap, error) {
	return s.readRepo.FindByID(ctx, roadmapID)
}

func (s *roadmapService) GetByCase(ctx context.Context, caseID string) (*domain.Roadmap, error) {
	return s.readRepo.FindByCaseID(ctx, caseID)
}

func (s *roadmapService) AddTasks(ctx context.Context, roadmapID string, tasks []*domain.Task) error {
	return s.mutate(ctx, "add_tasks", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		if err := r.AddTasks(tasks, now); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

func (s *roadmapService) StartTask(ctx context.Context, roadmapID, taskID, actor string) error {
	return s.mutate(ctx, "start_task", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		if err := r.StartTask(taskID, actor, now); err != nil {
			return nil, err
		}
		return []Event{{Kind: EventTaskStarted, RoadmapID: r.ID, CaseID: r.CaseID, TaskID: taskID, Phase: r.CurrentPhase, At: now}}, nil
	})
}

func (s *roadmapService) CompleteTask(ctx context.Context, roadmapID, taskID, actor, notes string, proof *domain.ProofReference) ([]string, error) {
	if proof != nil {
		if err := s.proofs.Validate(ctx, proof.Type, proof.Reference); err != nil {
			return nil, fmt.Errorf("validating proof: %w", err)
		}
	}
	var unlocked []string
	err := s.mutate(ctx, "complete_task", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		ids, err := r.CompleteTask(taskID, actor, notes, proof, now)
		if err != nil {
			return nil, err
		}
		unlocked = ids
		events := []Event{{Kind: EventTaskCompleted, RoadmapID: r.ID, CaseID: r.CaseID, TaskID: taskID, Phase: r.CurrentPhase, At: now}}
		for _, id := range ids {
			events = append(events, Event{Kind: EventTaskUnlocked, RoadmapID: r.ID, CaseID: r.CaseID, TaskID: id, Phase: r.CurrentPhase, At: now})
		}
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

func (s *roadmapService) SkipTask(ctx context.Context, roadmapID, taskID, actor, reason string) ([]string, error) {
	var unlocked []string
	err := s.mutate(ctx, "skip_task", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		ids, err := r.SkipTask(taskID, actor, reason, now)
		if err != nil {
			return nil, err
		}
		unlocked = ids
		events := []Event{{Kind: EventTaskSkipped, RoadmapID: r.ID, CaseID: r.CaseID, TaskID: taskID, Phase: r.CurrentPhase, At: now}}
		for _, id := range ids {
			events = append(events, Event{Kind: EventTaskUnlocked, RoadmapID: r.ID, CaseID: r.CaseID, TaskID: id, Phase: r.CurrentPhase, At: now})
		}
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

func (s *roadmapService) WaiveTask(ctx context.Context, roadmapID, taskID, actor, reason string) ([]string, error) {
	var unlocked []string
	err := s.mutate(ctx, "waive_task", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		ids, err := r.WaiveTask(taskID, actor, reason, now)
		if err != nil {
			return nil, err
		}
		unlocked = ids
		events := []Event{{Kind: EventTaskWaived, RoadmapID: r.ID, CaseID: r.CaseID, TaskID: taskID, Phase: r.CurrentPhase, At: now}}
		for _, id := range ids {
			events = append(events, Event{Kind: EventTaskUnlocked, RoadmapID: r.ID, CaseID: r.CaseID, TaskID: id, Phase: r.CurrentPhase, At: now})
		}
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

func (s *roadmapService) BlockTask(ctx context.Context, roadmapID, taskID, actor, reason, riskID string) error {
	return s.mutate(ctx, "block_task", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		if err := r.BlockTask(taskID, actor, reason, riskID, now); err != nil {
			return nil, err
		}
		return []Event{{Kind: EventTaskBlocked, RoadmapID: r.ID, CaseID: r.CaseID, TaskID: taskID, RiskID: riskID, Phase: r.CurrentPhase, At: now}}, nil
	})
}

func (s *roadmapService) UnblockTask(ctx context.Context, roadmapID, taskID, actor string) error {
	return s.mutate(ctx, "unblock_task", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		if err := r.UnblockTask(taskID, actor, now); err != nil {
			return nil, err
		}
		return []Event{{Kind: EventTaskUnblocked, RoadmapID: r.ID, CaseID: r.CaseID, TaskID: taskID, Phase: r.CurrentPhase, At: now}}, nil
	})
}

func (s *roadmapService) UnlinkRisk(ctx context.Context, roadmapID, riskID, actor string) ([]string, error) {
	var unlocked []string
	err := s.mutate(ctx, "unlink_risk", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		ids, err := r.UnlinkRisk(riskID, actor, now)
		if err != nil {
			return nil, err
		}
		unlocked = ids
		var events []Event
		for _, id := range ids {
			events = append(events, Event{Kind: EventTaskUnlocked, RoadmapID: r.ID, CaseID: r.CaseID, TaskID: id, RiskID: riskID, Phase: r.CurrentPhase, At: now})
		}
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

func (s *roadmapService) ReopenTask(ctx context.Context, roadmapID, taskID string) error {
	return s.mutate(ctx, "reopen_task", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		if err := r.ReopenTask(taskID, now); err != nil {
			return nil, err
		}
		return []Event{{Kind: EventTaskReopened, RoadmapID: r.ID, CaseID: r.CaseID, TaskID: taskID, Phase: r.CurrentPhase, At: now}}, nil
	})
}

func (s *roadmapService) CanStart(ctx context.Context, roadmapID, taskID string) (bool, error) {
	r, err := s.readRepo.FindByID(ctx, roadmapID)
	if err != nil {
		return false, err
	}
	return r.CanStartTask(taskID), nil
}

func (s *roadmapService) AdvancePhase(ctx context.Context, roadmapID string) error {
	return s.mutate(ctx, "advance_phase", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		if err := r.AdvancePhase(now); err != nil {
			return nil, err
		}
		kind := EventPhaseAdvanced
		if r.Status == domain.RoadmapCompleted {
			kind = EventRoadmapCompleted
		}
		return []Event{{Kind: kind, RoadmapID: r.ID, CaseID: r.CaseID, Phase: r.CurrentPhase, At: now}}, nil
	})
}

func (s *roadmapService) ForcePhase(ctx context.Context, roadmapID string, target domain.Phase) error {
	return s.mutate(ctx, "force_phase", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		if err := r.ForcePhase(target, now); err != nil {
			return nil, err
		}
		return []Event{{Kind: EventPhaseAdvanced, RoadmapID: r.ID, CaseID: r.CaseID, Phase: r.CurrentPhase, At: now}}, nil
	})
}

func (s *roadmapService) TryAutoAdvance(ctx context.Context, roadmapID string) (bool, error) {
	advanced := false
	err := s.mutate(ctx, "try_auto_advance", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		if err := r.AdvancePhase(now); err != nil {
			var notReady *domain.PhaseNotReadyError
			if errors.As(err, &notReady) {
				return nil, nil
			}
			return nil, err
		}
		advanced = true
		kind := EventPhaseAdvanced
		if r.Status == domain.RoadmapCompleted {
			kind = EventRoadmapCompleted
		}
		return []Event{{Kind: kind, RoadmapID: r.ID, CaseID: r.CaseID, Phase: r.CurrentPhase, At: now}}, nil
	})
	if err != nil {
		return false, err
	}
	return advanced, nil
}

func (s *roadmapService) SweepOverdue(ctx context.Context, roadmapID string) ([]string, error) {
	var flagged []string
	err := s.mutate(ctx, "sweep_overdue", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		flagged = r.SweepOverdue(now)
		var events []Event
		for _, id := range flagged {
			events = append(events, Event{Kind: EventTaskOverdue, RoadmapID: r.ID, CaseID: r.CaseID, TaskID: id, Phase: r.CurrentPhase, At: now})
		}
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return flagged, nil
}

func (s *roadmapService) Status(ctx context.Context, roadmapID string) (*contract.StatusView, error) {
	r, err := s.readRepo.FindByID(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	view := &contract.StatusView{
		RoadmapID:        r.ID,
		CaseID:           r.CaseID,
		Status:           r.Status,
		CurrentPhase:     r.CurrentPhase,
		OverallPercent:   r.OverallPercent(),
		TotalTasks:       r.TotalTasks,
		CompletedTasks:   r.CompletedTasks,
		SkippedTasks:     r.SkippedTasks,
		BlockedTasks:     r.BlockedTasks,
		OverdueTasks:     r.OverdueTasks,
		BlockedByRiskIDs: r.BlockedByRiskIDs,
	}
	for _, phase := range domain.PhaseOrder {
		p := r.PhaseProgress[phase]
		view.Phases = append(view.Phases, contract.PhaseProgressView{
			Phase:     phase,
			Completed: p.Completed,
			Total:     p.Total,
			Percent:   p.Percent,
			Current:   phase == r.CurrentPhase,
		})
	}
	for _, t := range r.Tasks {
		view.Tasks = append(view.Tasks, contract.TaskView{
			ID:        t.ID,
			Code:      t.Code,
			Title:     t.Title,
			Category:  t.Category,
			Phase:     t.Phase(),
			Priority:  t.Priority,
			Status:    t.Status,
			DueDate:   t.DueDate,
			IsOverdue: t.IsOverdue,
			CanStart:  r.CanStartTask(t.ID),
		})
	}
	return view, nil
}

func (s *roadmapService) CriticalPath(ctx context.Context, roadmapID string) (*contract.CriticalPathView, error) {
	r, err := s.readRepo.FindByID(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	analysis := cpm.Analyze(r.Tasks)
	view := &contract.CriticalPathView{ProjectDurationDays: analysis.TotalDuration}
	for _, id := range analysis.CriticalPath {
		t, ok := r.Task(id)
		if !ok {
			continue
		}
		ts := analysis.Schedules[id]
		view.CriticalTasks = append(view.CriticalTasks, contract.CriticalTaskView{
			TaskID:   id,
			Code:     t.Code,
			Title:    t.Title,
			Phase:    t.Phase(),
			Duration: t.DurationDays(),
			ES:       ts.ES,
			EF:       ts.EF,
			Float:    ts.Float,
		})
	}
	for _, t := range cpm.ParallelOpportunities(r.Tasks) {
		view.ParallelTaskIDs = append(view.ParallelTaskIDs, t.ID)
	}
	return view, nil
}

func (s *roadmapService) Analytics(ctx context.Context, roadmapID string) (*contract.AnalyticsView, error) {
	r, err := s.readRepo.FindByID(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	result := scheduler.ComputeAnalytics(scheduler.AnalyticsInput{
		Tasks:     r.Tasks,
		Now:       s.now(),
		DailyCost: dailyCost,
	})
	view := &contract.AnalyticsView{
		EstimatedDays:   result.EstimatedDays,
		EstimatedCost:   result.EstimatedCost,
		ComplexityScore: result.ComplexityScore,
		RiskExposure:    result.RiskExposure,
	}
	for _, b := range result.Bottlenecks {
		view.Bottlenecks = append(view.Bottlenecks, contract.BottleneckView{
			TaskID:         b.TaskID,
			Title:          b.Title,
			Dependents:     b.Dependents,
			OnCriticalPath: b.OnCriticalPath,
		})
	}
	return view, nil
}

func (s *roadmapService) Optimize(ctx context.Context, roadmapID string) ([]contract.PriorityUpgradeView, error) {
	var views []contract.PriorityUpgradeView
	err := s.mutate(ctx, "optimize", roadmapID, func(r *domain.Roadmap, now time.Time) ([]Event, error) {
		upgrades := scheduler.SuggestPriorityUpgrades(r.Tasks, now)
		scheduler.ApplyPriorityUpgrades(r.Tasks, upgrades, now)
		for _, u := range upgrades {
			view := contract.PriorityUpgradeView{TaskID: u.TaskID, From: u.From, To: u.To}
			for _, reason := range u.Reasons {
				view.Reasons = append(view.Reasons, reason.Message)
			}
			views = append(views, view)
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
