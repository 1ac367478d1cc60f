package cpm

// Result holds a complete critical path analysis over one roadmap's tasks.
type Result struct {
	Schedules     map[string]*TaskSchedule
	CriticalPath  []string // critical task ids ordered by (phase, order index)
	TotalDuration int      // project duration in workdays
	TopoOrder     []string
}

// TaskSchedule is the scheduling window computed for a single task. All
// figures are in whole workdays.
type TaskSchedule struct {
	TaskID     string
	ES, EF     int // earliest start/finish
	LS, LF     int // latest start/finish
	Float      int // slack: how far the task can slip without moving the end date
	IsCritical bool
}
