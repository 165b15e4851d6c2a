package acquire

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"gridpull/internal/artifact"
	"gridpull/internal/grid"
	"gridpull/internal/journal"
	"gridpull/internal/logging"
	"gridpull/internal/nsrdb"
	"gridpull/internal/ratelimit"
	"gridpull/internal/retrypolicy"
)

// Fetcher is the remote collaborator: one payload per task, or an error
// wrapping an nsrdb sentinel.
type Fetcher interface {
	Fetch(ctx context.Context, task grid.Task, req nsrdb.Request) ([]byte, error)
}

// Params collects the orchestrator's dependencies. Grid, Layout, and Fetcher
// are required; everything else has a usable zero value.
type Params struct {
	Grid    grid.Spec
	Request nsrdb.Request
	Fetcher Fetcher
	Layout  artifact.Layout
	Limiter *ratelimit.Limiter
	Policy  retrypolicy.Policy
	Workers int

	// SkipFailed propagates the resume opt-out to the gate.
	SkipFailed bool

	Recorder journal.Recorder
	Logger   *slog.Logger

	// Progress, when set, is invoked once per terminal outcome, from a
	// single goroutine.
	Progress func(TaskOutcome)

	// Sleep performs backoff waits; tests inject an instant version.
	Sleep func(context.Context, time.Duration) error
}

// Orchestrator runs the acquisition.
type Orchestrator struct {
	params    Params
	gate      *artifact.Gate
	committer *artifact.Committer
	logger    *slog.Logger
	sleep     func(context.Context, time.Duration) error
}

// New validates params and builds an orchestrator.
func New(params Params) (*Orchestrator, error) {
	if params.Fetcher == nil {
		return nil, errors.New("acquire: fetcher is required")
	}
	if params.Layout.Root == "" {
		return nil, errors.New("acquire: output layout is required")
	}
	if err := params.Grid.Validate(); err != nil {
		return nil, err
	}
	if params.Workers < 1 {
		params.Workers = 1
	}
	logger := params.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	sleep := params.Sleep
	if sleep == nil {
		sleep = ratelimit.SleepWithContext
	}
	gate := artifact.NewGate(params.Layout)
	gate.SkipFailed = params.SkipFailed
	return &Orchestrator{
		params:    params,
		gate:      gate,
		committer: artifact.NewCommitter(params.Layout),
		logger:    logger,
		sleep:     sleep,
	}, nil
}

// Run executes every task to a terminal outcome and returns the aggregated
// summary. Cancellation stops the run early; the partial summary and the
// context's error are returned together.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	lock, err := acquireRunLock(o.params.Layout.Root)
	if err != nil {
		return Summary{}, err
	}
	defer func() { _ = lock.Unlock() }()

	runID := o.beginJournalRun()
	started := time.Now()

	o.logger.Info("acquisition started",
		logging.Int("planned_tasks", o.params.Grid.Count()),
		logging.Int("workers", o.params.Workers),
		logging.String("out_dir", o.params.Layout.Root),
	)

	tasks := make(chan dispatch)
	outcomes := make(chan TaskOutcome)

	var workers sync.WaitGroup
	for i := 0; i < o.params.Workers; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for d := range tasks {
				outcomes <- o.runTask(ctx, d)
			}
		}()
	}

	var producer sync.WaitGroup
	producer.Add(1)
	go func() {
		defer producer.Done()
		defer close(tasks)
		for task := range o.params.Grid.Tasks() {
			if ctx.Err() != nil {
				return
			}
			decision, err := o.gate.Decide(task)
			if err != nil {
				o.logger.Warn("resume inspection failed",
					logging.String("task", task.Key()),
					logging.Error(err),
				)
			}
			switch decision {
			case artifact.SkipAlreadyValid, artifact.SkipPriorFailure:
				outcomes <- TaskOutcome{Task: task, Kind: Skipped, SkipReason: decision.String()}
			default:
				select {
				case tasks <- dispatch{task: task, decision: decision}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		producer.Wait()
		workers.Wait()
		close(outcomes)
	}()

	var summary Summary
	for outcome := range outcomes {
		summary.add(outcome)
		o.record(runID, outcome)
		if o.params.Progress != nil {
			o.params.Progress(outcome)
		}
	}

	o.finishJournalRun(runID, started, summary)
	o.logger.Info("acquisition finished",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Int64("bytes", summary.Bytes),
	)
	return summary, ctx.Err()
}

type dispatch struct {
	task     grid.Task
	decision artifact.Decision
}

// taskState is the per-task execution state machine. The retry policy stays
// pure; this loop owns the waiting.
type taskState int

const (
	statePending taskState = iota
	stateDispatched
	stateAwaitingRetry
	stateSucceeded
	stateFailed
)

func (o *Orchestrator) runTask(ctx context.Context, d dispatch) TaskOutcome {
	task := d.task
	logger := o.logger.With(logging.String("task", task.Key()))
	if d.decision == artifact.RunDespitePriorError {
		logger.Debug("retrying task with prior error marker")
	}

	// The gate ran at enqueue time; the artifact may have appeared since.
	if artifact.ValidateFile(o.params.Layout.PermanentPath(task)) {
		return TaskOutcome{Task: task, Kind: Skipped, SkipReason: artifact.SkipAlreadyValid.String()}
	}

	var (
		state    = statePending
		attempt  int
		lastErr  error
		lastKind nsrdb.Kind
		delay    time.Duration
		bytes    int64
	)

	for {
		switch state {
		case statePending:
			state = stateDispatched

		case stateAwaitingRetry:
			if err := o.sleep(ctx, delay); err != nil {
				return o.failed(task, lastKind, attempt, lastErr)
			}
			state = stateDispatched

		case stateDispatched:
			if err := o.params.Limiter.Wait(ctx); err != nil {
				return o.failed(task, lastKind, attempt, err)
			}
			attempt++
			err := o.attempt(ctx, task, &bytes)
			if err == nil {
				state = stateSucceeded
				break
			}
			if ctx.Err() != nil {
				return o.failed(task, lastKind, attempt, ctx.Err())
			}
			lastErr = err
			lastKind = nsrdb.Classify(err)

			decision := o.params.Policy.Next(attempt, lastKind)
			if !decision.Retry {
				state = stateFailed
				break
			}
			delay = decision.Delay
			logger.Warn("attempt failed, backing off",
				logging.Int("attempt", attempt),
				logging.String("classification", lastKind.String()),
				logging.Duration("backoff", delay),
				logging.Error(err),
			)
			state = stateAwaitingRetry

		case stateSucceeded:
			artifact.ClearMarker(o.params.Layout, task)
			logger.Info("task succeeded",
				logging.Int("attempts", attempt),
				logging.Int64("bytes", bytes),
			)
			return TaskOutcome{Task: task, Kind: Succeeded, Attempts: attempt, Bytes: bytes}

		case stateFailed:
			return o.failed(task, lastKind, attempt, lastErr)
		}
	}
}

// attempt performs one fetch-and-commit cycle.
func (o *Orchestrator) attempt(ctx context.Context, task grid.Task, bytes *int64) error {
	payload, err := o.params.Fetcher.Fetch(ctx, task, o.params.Request)
	if err != nil {
		return err
	}
	written, err := o.committer.CommitBytes(task, payload)
	if err != nil {
		return err
	}
	*bytes = written
	return nil
}

// failed writes the error marker and builds the terminal outcome. Context
// cancellation is not a task failure: no marker is written for it, so the
// next run retries cleanly.
func (o *Orchestrator) failed(task grid.Task, kind nsrdb.Kind, attempts int, cause error) TaskOutcome {
	if cause != nil && !errors.Is(cause, context.Canceled) && !errors.Is(cause, context.DeadlineExceeded) {
		if err := artifact.WriteMarker(o.params.Layout, task, kind, attempts, cause); err != nil {
			o.logger.Warn("error marker write failed",
				logging.String("task", task.Key()),
				logging.Error(err),
			)
		}
		o.logger.Error("task failed",
			logging.String("task", task.Key()),
			logging.String("classification", kind.String()),
			logging.Int("attempts", attempts),
			logging.Error(cause),
		)
	}
	return TaskOutcome{Task: task, Kind: Failed, ErrorKind: kind, Attempts: attempts, Err: cause}
}

func (o *Orchestrator) beginJournalRun() string {
	if o.params.Recorder == nil {
		return ""
	}
	runID, err := o.params.Recorder.BeginRun(time.Now())
	if err != nil {
		o.logger.Warn("journal run insert failed", logging.Error(err))
		return ""
	}
	return runID
}

func (o *Orchestrator) record(runID string, outcome TaskOutcome) {
	if o.params.Recorder == nil || runID == "" {
		return
	}
	result := journal.TaskResult{
		RunID:    runID,
		Task:     outcome.Task,
		Attempts: outcome.Attempts,
		Bytes:    outcome.Bytes,
	}
	switch outcome.Kind {
	case Succeeded:
		result.Outcome = journal.OutcomeSucceeded
	case Skipped:
		result.Outcome = journal.OutcomeSkipped
	case Failed:
		result.Outcome = journal.OutcomeFailed
		result.ErrorKind = outcome.ErrorKind
	}
	if err := o.params.Recorder.RecordResult(result); err != nil {
		o.logger.Warn("journal result insert failed", logging.Error(err))
	}
}

func (o *Orchestrator) finishJournalRun(runID string, started time.Time, summary Summary) {
	if o.params.Recorder == nil || runID == "" {
		return
	}
	err := o.params.Recorder.FinishRun(journal.Run{
		ID:         runID,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Succeeded:  summary.Succeeded,
		Skipped:    summary.Skipped,
		Failed:     summary.Failed,
		Bytes:      summary.Bytes,
	})
	if err != nil {
		o.logger.Warn("journal run finish failed", logging.Error(err))
	}
}
