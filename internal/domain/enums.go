package domain

type Phase string

const (
	PhasePreFiling    Phase = "pre_filing"
	PhaseFiling       Phase = "filing"
	PhaseConfirmation Phase = "confirmation"
	PhaseDistribution Phase = "distribution"
	PhaseClosure      Phase = "closure"
)

// PhaseOrder is the strict linear progression of a roadmap. There is no
// skipping and no going back.
var PhaseOrder = []Phase{
	PhasePreFiling,
	PhaseFiling,
	PhaseConfirmation,
	PhaseDistribution,
	PhaseClosure,
}

// Index returns the position of p in PhaseOrder, or -1 for an unknown phase.
func (p Phase) Index() int {
	for i, ph := range PhaseOrder {
		if ph == p {
			return i
		}
	}
	return -1
}

// Before reports whether p comes strictly before other in the progression.
func (p Phase) Before(other Phase) bool {
	return p.Index() < other.Index()
}

// FinalPhase is the terminal phase of every roadmap.
const FinalPhase = PhaseClosure

type TaskStatus string

const (
	TaskLocked     TaskStatus = "locked"
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskBlocked    TaskStatus = "blocked"
	TaskCompleted  TaskStatus = "completed"
	TaskSkipped    TaskStatus = "skipped"
	TaskWaived     TaskStatus = "waived"
)

// IsResolved reports whether the status counts as done for dependency and
// progress accounting.
func (s TaskStatus) IsResolved() bool {
	return s == TaskCompleted || s == TaskSkipped || s == TaskWaived
}

type TaskCategory string

const (
	CategoryIdentity     TaskCategory = "identity"
	CategoryFamily       TaskCategory = "family"
	CategoryAssets       TaskCategory = "assets"
	CategoryForms        TaskCategory = "forms"
	CategoryFiling       TaskCategory = "filing"
	CategoryGazette      TaskCategory = "gazette"
	CategoryCourt        TaskCategory = "court"
	CategoryDistribution TaskCategory = "distribution"
	CategoryClosure      TaskCategory = "closure"
)

// categoryPhase is the canonical category-to-phase mapping. A task's phase is
// always derived through this table, never stored independently.
var categoryPhase = map[TaskCategory]Phase{
	CategoryIdentity:     PhasePreFiling,
	CategoryFamily:       PhasePreFiling,
	CategoryAssets:       PhasePreFiling,
	CategoryForms:        PhaseFiling,
	CategoryFiling:       PhaseFiling,
	CategoryGazette:      PhaseFiling,
	CategoryCourt:        PhaseConfirmation,
	CategoryDistribution: PhaseDistribution,
	CategoryClosure:      PhaseClosure,
}

// PhaseFor returns the phase a category belongs to.
func PhaseFor(c TaskCategory) (Phase, bool) {
	p, ok := categoryPhase[c]
	return p, ok
}

// ValidCategories is the canonical set of accepted task category strings.
var ValidCategories = map[string]bool{
	"identity": true, "family": true, "assets": true,
	"forms": true, "filing": true, "gazette": true,
	"court": true, "distribution": true, "closure": true,
}

type TaskPriority string

const (
	PriorityCritical TaskPriority = "critical"
	PriorityHigh     TaskPriority = "high"
	PriorityMedium   TaskPriority = "medium"
	PriorityLow      TaskPriority = "low"
)

type RoadmapStatus string

const (
	RoadmapDraft     RoadmapStatus = "draft"
	RoadmapActive    RoadmapStatus = "active"
	RoadmapPaused    RoadmapStatus = "paused"
	RoadmapBlocked   RoadmapStatus = "blocked"
	RoadmapCompleted RoadmapStatus = "completed"
	RoadmapAbandoned RoadmapStatus = "abandoned"
	RoadmapEscalated RoadmapStatus = "escalated"
)

type ProofType string

const (
	ProofDocumentUpload ProofType = "document_upload"
	ProofPaymentReceipt ProofType = "payment_receipt"
	ProofCourtStamp     ProofType = "court_stamp"
	ProofAffidavit      ProofType = "affidavit"
	ProofGazetteNotice  ProofType = "gazette_notice"
)

// ValidProofTypes is the canonical set of accepted proof types.
var ValidProofTypes = map[ProofType]bool{
	ProofDocumentUpload: true,
	ProofPaymentReceipt: true,
	ProofCourtStamp:     true,
	ProofAffidavit:      true,
	ProofGazetteNotice:  true,
}

func (p ProofType) Valid() bool {
	return ValidProofTypes[p]
}
