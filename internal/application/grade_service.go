package application

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openkraft/autograder/internal/domain"
	"github.com/openkraft/autograder/internal/domain/rubric"
)

const eventBuffer = 64

// GradeService orchestrates the grading pipeline:
// discover → per unit (compile → execute → evaluate) → completion.
// Units are graded strictly one after another on a single goroutine.
type GradeService struct {
	discoverer domain.SourceDiscoverer
	compiler   *Compiler
	executor   *Executor
	cfg        domain.GradeConfig
	markers    rubric.Markers
	logger     *zap.Logger

	readSource func(name string) ([]byte, error)
	newID      func() string
}

func NewGradeService(
	discoverer domain.SourceDiscoverer,
	runner domain.ProcessRunner,
	cfg domain.GradeConfig,
	logger *zap.Logger,
) (*GradeService, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	compileTmpl, err := ParseTemplate(cfg.Toolchain.Compile)
	if err != nil {
		return nil, fmt.Errorf("compile command: %w", err)
	}
	runTmpl, err := ParseTemplate(cfg.Toolchain.Run)
	if err != nil {
		return nil, fmt.Errorf("run command: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &GradeService{
		discoverer: discoverer,
		compiler:   NewCompiler(runner, compileTmpl),
		executor:   NewExecutor(runner, runTmpl),
		cfg:        cfg,
		markers:    rubric.DefaultMarkers().WithOverrides(cfg.Rubric.Markers),
		logger:     logger,
		readSource: os.ReadFile,
		newID:      uuid.NewString,
	}, nil
}

// Config returns the effective configuration.
func (s *GradeService) Config() domain.GradeConfig { return s.cfg }

// Batch is a grading run executing on its own goroutine. Events arrive in
// generation order and the channel closes after the completion event.
type Batch struct {
	ID string

	events chan domain.Event
	done   chan struct{}
	result *domain.BatchResult
	err    error
}

func (b *Batch) Events() <-chan domain.Event { return b.events }

// Wait blocks until the batch finishes and returns its result. Events not
// yet received from Events are discarded. On a discovery failure or
// cancellation the result is still well formed and holds every unit
// finished so far.
func (b *Batch) Wait() (*domain.BatchResult, error) {
	for range b.events {
	}
	<-b.done
	return b.result, b.err
}

func (b *Batch) emit(ev domain.Event) {
	ev.BatchID = b.ID
	b.events <- ev
}

func (b *Batch) progress(unit, line string) {
	b.emit(domain.Event{Type: domain.EventProgress, Unit: unit, Line: line})
}

// Start grades every unit found at path in the background. The caller must
// drain Events or call Wait.
func (s *GradeService) Start(ctx context.Context, path string) *Batch {
	b := &Batch{
		ID:     s.newID(),
		events: make(chan domain.Event, eventBuffer),
		done:   make(chan struct{}),
	}

	go func() {
		result, err := s.run(ctx, path, b)
		b.emit(domain.Event{Type: domain.EventBatchCompleted})
		b.result, b.err = result, err
		close(b.events)
		close(b.done)
	}()

	return b
}

// Grade runs a batch and delivers its events to sink on the calling
// goroutine. A failing sink does not stop the batch; its first error is
// returned after the batch completes.
func (s *GradeService) Grade(ctx context.Context, path string, sink domain.ReportSink) (*domain.BatchResult, error) {
	b := s.Start(ctx, path)

	var sinkErr error
	for ev := range b.Events() {
		if sinkErr != nil {
			continue
		}
		if err := sink.Publish(ev); err != nil {
			sinkErr = fmt.Errorf("publishing event: %w", err)
		}
	}

	result, err := b.Wait()
	if err != nil {
		return result, err
	}
	return result, sinkErr
}

func (s *GradeService) run(ctx context.Context, path string, b *Batch) (*domain.BatchResult, error) {
	result := &domain.BatchResult{ID: b.ID, Reports: []domain.GradeReport{}}
	log := s.logger.With(zap.String("batch_id", b.ID))

	units, err := s.discoverer.Discover(path, s.cfg.Extension)
	if err == nil && len(units) == 0 {
		err = &domain.DiscoveryError{
			Path:   path,
			Reason: fmt.Sprintf("No %s files found to compile.", s.cfg.Extension),
		}
	}
	if err != nil {
		var de *domain.DiscoveryError
		if !errors.As(err, &de) {
			de = &domain.DiscoveryError{Path: path, Reason: err.Error(), Err: err}
		}
		b.progress("", "Error: "+de.Reason)
		log.Warn("discovery failed", zap.String("path", path), zap.Error(err))
		return result, de
	}

	result.Root = units[0].Dir
	log.Info("grading batch", zap.String("root", result.Root), zap.Int("units", len(units)))

	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			log.Warn("batch cancelled", zap.Int("finished", len(result.Reports)), zap.Int("units", len(units)))
			return result, err
		}

		report, err := s.gradeUnit(ctx, unit, b, log)
		result.Reports = append(result.Reports, report)
		b.emit(domain.Event{Type: domain.EventUnitFinished, Unit: unit.File, Report: &report})
		if err != nil {
			log.Warn("batch cancelled", zap.Int("finished", len(result.Reports)), zap.Int("units", len(units)))
			return result, err
		}
	}

	sum := result.Summary()
	log.Info("batch finished",
		zap.Int("graded", sum.Graded),
		zap.Int("compile_failed", sum.CompileFailed),
		zap.Int("execute_failed", sum.ExecuteFailed),
		zap.Int("tool_errors", sum.ToolErrors),
	)
	return result, nil
}

// unitRun is the mutable state of the unit currently being graded. It
// never outlives gradeUnit.
type unitRun struct {
	unit   domain.SourceUnit
	report domain.GradeReport
	source string
}

// gradeUnit drives one unit to a terminal state. Stage errors become a
// ToolError report; the returned error is non-nil only when ctx was
// cancelled.
func (s *GradeService) gradeUnit(ctx context.Context, unit domain.SourceUnit, b *Batch, log *zap.Logger) (domain.GradeReport, error) {
	u := &unitRun{unit: unit, report: domain.GradeReport{Unit: unit}}
	log = log.With(zap.String("unit", unit.File))

	b.progress(unit.File, "")
	b.progress(unit.File, "Grading file: "+unit.File)

	state := domain.StatePending
	for !state.IsTerminal() {
		next, err := s.step(ctx, state, u, b)
		if err == nil {
			err = domain.Transition(state, next)
		}
		if err != nil {
			log.Warn("tool error", zap.Stringer("state", state), zap.Error(err))
			u.report.Error = err.Error()
			u.report.Status = domain.StatusToolError
			b.progress(unit.File, "Error grading file: "+err.Error())
			return u.report, ctx.Err()
		}
		log.Debug("transition", zap.Stringer("from", state), zap.Stringer("to", next))
		state = next
	}

	u.report.Status = state.Status()
	log.Debug("unit finished", zap.String("status", string(u.report.Status)), zap.Int("total", u.report.Total()))
	return u.report, nil
}

// step runs the work attached to state and returns the state to move to.
func (s *GradeService) step(ctx context.Context, state domain.UnitState, u *unitRun, b *Batch) (domain.UnitState, error) {
	switch state {
	case domain.StatePending:
		return domain.StateCompiling, nil

	case domain.StateCompiling:
		out, err := s.compiler.Compile(ctx, u.unit)
		if err != nil {
			return state, err
		}
		u.report.Compile = &out
		b.progress(u.unit.File, out.Message)
		if !out.Succeeded {
			return domain.StateCompileFailed, nil
		}
		// Snapshot the text that was just compiled; rubric checks read it later.
		src, err := s.readSource(u.unit.Path)
		if err != nil {
			return state, fmt.Errorf("reading source: %w", err)
		}
		u.source = string(src)
		return domain.StateExecuting, nil

	case domain.StateExecuting:
		out, err := s.executor.Execute(ctx, u.unit)
		if err != nil {
			return state, err
		}
		u.report.Execute = &out
		b.progress(u.unit.File, out.Message)
		if !out.Succeeded {
			return domain.StateExecuteFailed, nil
		}
		return domain.StateEvaluating, nil

	case domain.StateEvaluating:
		expected := s.cfg.ExpectedFor(u.unit.Name)
		score := rubric.Evaluate(u.source, u.report.Execute.Result.Output, expected, s.markers)
		u.report.Rubric = &score
		for _, line := range rubric.FormatBlock(u.unit.File, score) {
			b.progress(u.unit.File, line)
		}
		return domain.StateGraded, nil
	}

	return state, fmt.Errorf("no stage for state %s", state)
}
