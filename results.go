package neuralnet

import "time"

// StoppingCondition records which stopping criterion ended a training run.
type StoppingCondition int8

const (
	NotStopped StoppingCondition = iota
	PerformanceGoalReached
	MinimumParametersIncrementNormReached
	MinimumPerformanceIncreaseReached
	GradientNormGoalReached
	GeneralizationFailuresReached
	MaximumIterationsReached
	MaximumTimeReached
)

var conditionNames = [...]string{
	NotStopped:                            "not stopped",
	PerformanceGoalReached:                "performance goal reached",
	MinimumParametersIncrementNormReached: "minimum parameters increment norm reached",
	MinimumPerformanceIncreaseReached:     "minimum performance increase reached",
	GradientNormGoalReached:               "gradient norm goal reached",
	GeneralizationFailuresReached:         "maximum generalization failures reached",
	MaximumIterationsReached:              "maximum number of iterations reached",
	MaximumTimeReached:                    "maximum training time reached",
}

func (c StoppingCondition) String() string {
	if c < 0 || int(c) >= len(conditionNames) {
		return "unknown"
	}

	return conditionNames[c]
}

// TrainingState is the state of a training run.
type TrainingState int8

const (
	Idle TrainingState = iota
	Running
	Converged
	MaxIterations
	MaxTime
	Stopped
)

func (s TrainingState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Converged:
		return "converged"
	case MaxIterations:
		return "max-iterations"
	case MaxTime:
		return "max-time"
	case Stopped:
		return "stopped"
	}

	return "unknown"
}

// State maps the condition onto the terminal state of a training run. Early stopping on
// generalization is reported as Stopped.
func (c StoppingCondition) State() TrainingState {
	switch c {
	case NotStopped:
		return Running
	case MaximumIterationsReached:
		return MaxIterations
	case MaximumTimeReached:
		return MaxTime
	case GeneralizationFailuresReached:
		return Stopped
	}

	return Converged
}

// HistoryFlags select which values are recorded at every iteration of a training run.
type HistoryFlags uint16

const (
	ParametersHistory HistoryFlags = 1 << iota
	ParametersNormHistory
	PerformanceHistory
	GradientHistory
	GradientNormHistory
	GeneralizationHistory
	ElapsedTimeHistory
	DirectionHistory
	StepLengthHistory
)

// AllHistory returns the flags that record everything.
func AllHistory() HistoryFlags {
	return StepLengthHistory<<1 - 1
}

// Has returns whether or not every flag in f is set.
func (h HistoryFlags) Has(f HistoryFlags) bool {
	return h&f == f
}

// Results are the outcome of a training run. Each history slice is nil unless the matching
// HistoryFlags were set, and has one entry per iteration, beginning with the state before the
// first step.
type Results struct {
	Algorithm string
	Condition StoppingCondition

	// Iterations is the number of steps taken
	Iterations int
	Elapsed    time.Duration

	FinalParameters     []float64
	FinalParametersNorm float64
	FinalPerformance    float64
	FinalGradientNorm   float64

	// NaN if there is no validation partition
	FinalGeneralization float64

	Parameters     [][]float64
	ParametersNorm []float64
	Performance    []float64
	Gradient       [][]float64
	GradientNorm   []float64
	Generalization []float64
	ElapsedTime    []time.Duration
	Direction      [][]float64
	StepLength     []float64
}

// State returns the terminal state of the run.
func (r *Results) State() TrainingState {
	return r.Condition.State()
}

// NewResults returns Results with the selected history slices allocated with capacity for
// maxIterations+1 entries.
func NewResults(algorithm string, flags HistoryFlags, maxIterations int) *Results {
	c := maxIterations + 1
	if c < 1 {
		c = 1
	}

	r := &Results{Algorithm: algorithm}
	if flags.Has(ParametersHistory) {
		r.Parameters = make([][]float64, 0, c)
	}
	if flags.Has(ParametersNormHistory) {
		r.ParametersNorm = make([]float64, 0, c)
	}
	if flags.Has(PerformanceHistory) {
		r.Performance = make([]float64, 0, c)
	}
	if flags.Has(GradientHistory) {
		r.Gradient = make([][]float64, 0, c)
	}
	if flags.Has(GradientNormHistory) {
		r.GradientNorm = make([]float64, 0, c)
	}
	if flags.Has(GeneralizationHistory) {
		r.Generalization = make([]float64, 0, c)
	}
	if flags.Has(ElapsedTimeHistory) {
		r.ElapsedTime = make([]time.Duration, 0, c)
	}
	if flags.Has(DirectionHistory) {
		r.Direction = make([][]float64, 0, c)
	}
	if flags.Has(StepLengthHistory) {
		r.StepLength = make([]float64, 0, c)
	}

	return r
}
