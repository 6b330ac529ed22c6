package validation

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/schemata/pkg/schema"
)

// Result is the outcome of one validation run.
type Result struct {
	// Model is the value passed to Validate.
	Model any
	// Valid is true when no validator reported a failure.
	Valid bool
	// Errors maps each failed field to its failure codes, in arrival order.
	// Fields without failures are absent.
	Errors map[string][]string
}

// Callback receives the final result of a run exactly once.
type Callback func(*Result)

type engine struct {
	chains *Chains
	logger *slog.Logger
	hooks  Hooks
}

// Validate runs the validator chains of every field of s against model.
//
// The model must be a record (see schema.ToRecord); otherwise ErrInvalidModel
// is returned before any validator runs. ErrMissingValidators is returned
// when s was built without the validation plugin.
//
// Sync validators run on the calling goroutine. Async validators are started
// on it too and report whenever they call done. ctx is handed to async
// validators; the run itself is never aborted. If cb is not nil it is called
// with the final result from its own goroutine.
func Validate(ctx context.Context, s *schema.Schema, model any, cb Callback) (*Pending, error) {
	rec, err := schema.ToRecord(model)
	if err != nil {
		return nil, err
	}
	eng, ok := engineOf(s)
	if !ok {
		name := "<nil>"
		if s != nil {
			name = s.Name()
		}
		return nil, fmt.Errorf("%w: schema %s", ErrMissingValidators, name)
	}
	return eng.start(ctx, s, model, rec, cb), nil
}

func (e *engine) start(ctx context.Context, s *schema.Schema, model any, rec schema.Record, cb Callback) *Pending {
	fields := s.Fields()
	r := &run{
		schema:  s.Name(),
		model:   model,
		logger:  e.logger,
		hooks:   e.hooks,
		started: time.Now(),
		errors:  make(map[string][]string),
		left:    make(map[string]int, len(fields)),
		fields:  len(fields),
		done:    make(chan struct{}),
	}
	for _, f := range fields {
		r.left[f] = len(e.chains.fields[f])
	}

	if cb != nil {
		go func() {
			<-r.done
			cb(r.result)
		}()
	}

	e.logger.Debug("validation started", "schema", r.schema, "fields", len(fields))

	if len(fields) == 0 {
		r.finish()
		return &Pending{run: r}
	}

	for _, f := range fields {
		chain := e.chains.fields[f]
		if len(chain) == 0 {
			r.settle(f, "", 0)
			continue
		}
		value := rec[f]
		for _, v := range chain {
			if v.async != nil {
				v.async(ctx, value, rec, r.reporter(f, v.name))
				continue
			}
			r.settle(f, v.sync(value, rec), 1)
		}
	}
	return &Pending{run: r}
}

// run is the accumulator of a single Validate call.
type run struct {
	schema  string
	model   any
	logger  *slog.Logger
	hooks   Hooks
	started time.Time

	mu     sync.Mutex
	errors map[string][]string
	left   map[string]int // validators still to report, per field
	fields int            // fields still to settle

	done   chan struct{}
	result *Result
}

// reporter returns the done callback of one async validator. Only its first
// call counts.
func (r *run) reporter(field, validator string) func(string) {
	var called atomic.Bool
	return func(code string) {
		if !called.CompareAndSwap(false, true) {
			r.logger.Warn("validator reported more than once",
				"schema", r.schema, "field", field, "validator", validator, "code", code)
			return
		}
		r.settle(field, code, 1)
	}
}

// settle records n reports for field, with code as the failure code of the
// reporting validator ("" on success).
func (r *run) settle(field, code string, n int) {
	r.mu.Lock()
	if code != "" {
		r.errors[field] = append(r.errors[field], code)
	}
	r.left[field] -= n
	if r.left[field] > 0 {
		r.mu.Unlock()
		return
	}
	codes := slices.Clone(r.errors[field])
	r.fields--
	last := r.fields == 0
	r.mu.Unlock()

	if r.hooks.OnFieldSettled != nil {
		r.hooks.OnFieldSettled(r.schema, field, codes, time.Since(r.started))
	}
	if last {
		r.finish()
	}
}

func (r *run) finish() {
	r.mu.Lock()
	res := &Result{
		Model:  r.model,
		Errors: make(map[string][]string, len(r.errors)),
	}
	for f, codes := range r.errors {
		res.Errors[f] = slices.Clone(codes)
	}
	res.Valid = len(res.Errors) == 0
	r.result = res
	r.mu.Unlock()

	elapsed := time.Since(r.started)
	r.logger.Debug("validation finished",
		"schema", r.schema, "valid", res.Valid, "failed_fields", len(res.Errors), "elapsed", elapsed)
	if r.hooks.OnComplete != nil {
		r.hooks.OnComplete(r.schema, res.Valid, elapsed)
	}
	close(r.done)
}

// Pending is the future of a validation run.
type Pending struct {
	run *run
}

// Done is closed once every field has settled.
func (p *Pending) Done() <-chan struct{} { return p.run.done }

// Wait blocks until the run completes or ctx is done. When a field failed it
// returns the result together with a *FailedError carrying that same result.
func (p *Pending) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-p.run.done:
		res := p.run.result
		if !res.Valid {
			return res, &FailedError{Result: res}
		}
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the final result without blocking. ok is false while the
// run is still in flight.
func (p *Pending) Result() (res *Result, ok bool) {
	select {
	case <-p.run.done:
		return p.run.result, true
	default:
		return nil, false
	}
}

// Partial returns a snapshot of the failures reported so far.
func (p *Pending) Partial() map[string][]string {
	p.run.mu.Lock()
	defer p.run.mu.Unlock()
	out := maps.Clone(p.run.errors)
	for f, codes := range out {
		out[f] = slices.Clone(codes)
	}
	return out
}
