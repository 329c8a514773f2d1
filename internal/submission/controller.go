package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/checkmate/internal/checkmate"
	"github.com/five82/checkmate/internal/headline"
)

// MaxAttempts is the number of Predict calls made per submission: the first
// attempt plus one automatic retry.
const MaxAttempts = 2

var (
	// ErrSuperseded is returned by Resolve when a newer submission replaced
	// this one before its outcome could be applied.
	ErrSuperseded = errors.New("submission superseded")
	// ErrClosed is returned once the controller has been torn down.
	ErrClosed = errors.New("submission controller closed")
)

// Phase enumerates the lifecycle of the current submission.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is the tagged union exposed to the presentation layer. Result is set
// only in PhaseSuccess and Err only in PhaseFailed.
type State struct {
	Phase    Phase
	Seq      uint64
	Headline string
	Result   checkmate.PredictionResponse
	Err      *checkmate.APIError
	Attempts int
	Updated  time.Time
}

// Terminal reports whether the state is Success or Failed.
func (s State) Terminal() bool {
	return s.Phase == PhaseSuccess || s.Phase == PhaseFailed
}

// Option customizes a Controller.
type Option func(*Controller)

// WithAttemptTimeout bounds every Predict call. Zero disables the bound.
func WithAttemptTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.attemptTimeout = d
		}
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the single in-flight prediction request.
type Controller struct {
	predictor      checkmate.Predictor
	attemptTimeout time.Duration
	logger         *slog.Logger
	now            func() time.Time

	// base is cancelled by Close and parents every submission.
	base     context.Context
	teardown context.CancelFunc

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	state  State
	closed bool
}

// New returns an idle controller.
func New(p checkmate.Predictor, opts ...Option) *Controller {
	base, teardown := context.WithCancel(context.Background())
	c := &Controller{
		predictor: p,
		logger:    slog.Default(),
		now:       time.Now,
		base:      base,
		teardown:  teardown,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = State{Phase: PhaseIdle, Updated: c.now()}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submission is one accepted headline awaiting resolution.
type Submission struct {
	ctrl      *Controller
	seq       uint64
	headline  headline.Headline
	requestID string
	ctx       context.Context
	cancel    context.CancelFunc
}

// Seq returns the submission's sequence number.
func (s *Submission) Seq() uint64 {
	return s.seq
}

// Headline returns the validated headline being submitted.
func (s *Submission) Headline() string {
	return s.headline.String()
}

// Begin validates text and, if accepted, supersedes any in-flight submission
// and moves the controller to Pending. A validation error leaves the state
// untouched.
func (c *Controller) Begin(text string) (*Submission, error) {
	h, err := headline.Validate(text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	if c.cancel != nil {
		c.cancel()
		c.logger.Debug("superseding in-flight submission", "seq", c.seq)
	}
	c.seq++
	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel

	sub := &Submission{
		ctrl:      c,
		seq:       c.seq,
		headline:  h,
		requestID: checkmate.NewRequestID(),
		ctx:       ctx,
		cancel:    cancel,
	}
	c.state = State{
		Phase:    PhasePending,
		Seq:      sub.seq,
		Headline: h.String(),
		Updated:  c.now(),
	}
	c.logger.Info("submission pending", "seq", sub.seq, "request_id", sub.requestID)
	return sub, nil
}

// Resolve performs the network calls for the submission and applies the
// outcome if the submission is still the latest. It returns the applied state,
// or the controller's current state together with ErrSuperseded or ErrClosed
// when the outcome was discarded.
func (s *Submission) Resolve(ctx context.Context) (State, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	// Caller cancellation propagates synchronously; supersession and Close
	// arrive through the submission's own context.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	runCtx = checkmate.WithRequestID(runCtx, s.requestID)
	resp, attempts, err := s.ctrl.attempt(runCtx, checkmate.PredictionRequest{Headline: s.headline.String()})
	return s.ctrl.apply(s, resp, attempts, err)
}

// Submit is Begin followed by Resolve.
func (c *Controller) Submit(ctx context.Context, text string) (State, error) {
	sub, err := c.Begin(text)
	if err != nil {
		return c.State(), err
	}
	return sub.Resolve(ctx)
}

// Close cancels any outstanding submission. No state changes after Close.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel = nil
	c.teardown()
}

func (c *Controller) attempt(ctx context.Context, req checkmate.PredictionRequest) (checkmate.PredictionResponse, int, error) {
	var lastErr error
	for n := 1; n <= MaxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return checkmate.PredictionResponse{}, n - 1, err
		}
		resp, err := c.predictOnce(ctx, req)
		if err == nil {
			return resp, n, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return checkmate.PredictionResponse{}, n, lastErr
		}
		if n < MaxAttempts {
			c.logger.Warn("prediction attempt failed, retrying",
				"attempt", n,
				"request_id", checkmate.RequestID(ctx),
				"error", err)
		}
	}
	return checkmate.PredictionResponse{}, MaxAttempts, lastErr
}

func (c *Controller) predictOnce(ctx context.Context, req checkmate.PredictionRequest) (checkmate.PredictionResponse, error) {
	if c.predictor == nil {
		return checkmate.PredictionResponse{}, fmt.Errorf("no predictor configured")
	}
	if c.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()
	}
	return c.predictor.Predict(ctx, req)
}

func (c *Controller) apply(s *Submission, resp checkmate.PredictionResponse, attempts int, err error) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.state, ErrClosed
	}
	if s.seq != c.seq {
		c.logger.Debug("discarding stale submission outcome", "seq", s.seq, "latest", c.seq)
		return c.state, ErrSuperseded
	}
	s.cancel()
	c.cancel = nil

	next := State{
		Seq:      s.seq,
		Headline: s.headline.String(),
		Attempts: attempts,
		Updated:  c.now(),
	}
	if err != nil {
		next.Phase = PhaseFailed
		next.Err = checkmate.AsAPIError(err)
		c.logger.Error("submission failed",
			"seq", s.seq,
			"request_id", s.requestID,
			"attempts", attempts,
			"error", next.Err.Detail)
	} else {
		next.Phase = PhaseSuccess
		next.Result = resp
		c.logger.Info("submission succeeded",
			"seq", s.seq,
			"request_id", s.requestID,
			"attempts", attempts,
			"label", string(resp.Label),
			"score", resp.Score)
	}
	c.state = next
	return next, nil
}
