package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/pcfscope/server/catalog"
	"github.com/pcfscope/server/fraction"
	"github.com/pcfscope/server/logger"
	"github.com/pcfscope/server/metadata"
	"github.com/pcfscope/server/normalize"
	"github.com/pcfscope/server/series"
	"github.com/pcfscope/server/verify"
)

var ErrSessionClosed = errors.New("session closed")

// frames larger than the default 32 KiB are common for series batches
const readLimit = 8 << 20

// Verifier looks up closed forms for a limit value.
type Verifier interface {
	Verify(ctx context.Context, expression string) (verify.Result, error)
}

type Config struct {
	// URL of the backend streaming endpoint (ws:// or wss://).
	URL            string
	ConnectTimeout time.Duration
	// IdleTimeout bounds the wait for each stream message. Zero waits
	// forever.
	IdleTimeout time.Duration

	// Verifier is nil when verification is disabled.
	Verifier      Verifier
	VerifyTimeout time.Duration

	Catalog       *catalog.Catalog
	Normalizer    *normalize.Normalizer
	DisplayDigits int

	// OnUpdate receives a snapshot after every handled event. It runs on
	// the session's event goroutine and must not block.
	OnUpdate func(View)

	DialOptions *websocket.DialOptions
}

type frame struct {
	data []byte
	err  error
}

type verification struct {
	result verify.Result
	err    error
}

// Session streams one analysis. All mutation happens on a single event
// goroutine, so one message is fully applied before the next is read.
type Session struct {
	id  string
	cfg Config
	req Request
	log *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.RWMutex
	conn         *websocket.Conn
	state        State
	convergent   *bool
	limit        string
	limitDisplay string
	closedForms  []ClosedForm
	seeAlso      []RelatedFraction
	verifyState  VerifyState
	messages     int
	dropped      int
	lastErr      string
	inputA       string
	inputB       string
	fraction     string
	acc          *series.Accumulator
	meta         *metadata.Deduper

	frames   chan frame
	verified chan verification

	started   bool
	done      chan struct{}
	closeOnce sync.Once
}

// New prepares a session in the idle state. Nothing is dialled until Start.
func New(cfg Config, req Request) *Session {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Normalizer == nil {
		cfg.Normalizer = normalize.New(cfg.Catalog)
	}
	if cfg.DisplayDigits <= 0 {
		cfg.DisplayDigits = 30
	}

	log, id := logger.NewSessionLogger()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:       id,
		cfg:      cfg,
		req:      req,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		state:    StateIdle,
		acc:      series.NewAccumulator(),
		meta:     metadata.New(cfg.Catalog),
		frames:   make(chan frame),
		verified: make(chan verification, 1),
		done:     make(chan struct{}),
	}
	s.renderInputs()
	return s
}

// Dial creates a session and starts it. On failure the session is closed
// and only the error is returned.
func Dial(ctx context.Context, cfg Config, req Request) (*Session, error) {
	s := New(cfg, req)
	if err := s.Start(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) ID() string       { return s.id }
func (s *Session) Request() Request { return s.req }

// Done is closed when the session will handle no more events.
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait blocks until the session is done or ctx ends.
func (s *Session) Wait(ctx context.Context) (View, error) {
	select {
	case <-s.done:
		return s.View(), nil
	case <-ctx.Done():
		return s.View(), ctx.Err()
	}
}

// Start connects to the backend and sends the request. A dial or write
// failure moves the session to the failed state.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started || s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("start in state %s: %w", state, ErrSessionClosed)
	}
	s.started = true
	s.state = StateConnecting
	s.mu.Unlock()
	s.emit()

	s.log.Info("connecting", "url", s.cfg.URL, "symbol", s.req.Symbol, "depth", s.req.Depth)

	dialCtx, cancel := s.connectContext(ctx)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, s.cfg.URL, s.cfg.DialOptions)
	if err != nil {
		s.fail(fmt.Errorf("connect: %w", err))
		close(s.done)
		return err
	}
	conn.SetReadLimit(readLimit)

	s.mu.Lock()
	if s.ctx.Err() != nil {
		// closed while dialling
		s.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "")
		close(s.done)
		return ErrSessionClosed
	}
	s.conn = conn
	s.state = StateOpen
	s.mu.Unlock()

	if err := wsjson.Write(dialCtx, conn, s.req); err != nil {
		conn.Close(websocket.StatusInternalError, "")
		s.fail(fmt.Errorf("send request: %w", err))
		close(s.done)
		return err
	}
	s.emit()

	go s.readLoop(conn)
	go s.run()
	return nil
}

func (s *Session) connectContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	if s.cfg.ConnectTimeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, s.cfg.ConnectTimeout)
		return ctx, func() { cancelTimeout(); stop(); cancel() }
	}
	return ctx, func() { stop(); cancel() }
}

// readLoop forwards frames to the event goroutine until the connection
// ends. The final frame carries the terminating error.
func (s *Session) readLoop(conn *websocket.Conn) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r, "stream reader crashed", "sessionId", s.id)
		}
	}()

	for {
		readCtx, cancel := s.ctx, context.CancelFunc(func() {})
		if s.cfg.IdleTimeout > 0 {
			readCtx, cancel = context.WithTimeout(s.ctx, s.cfg.IdleTimeout)
		}
		_, data, err := conn.Read(readCtx)
		timedOut := readCtx.Err() == context.DeadlineExceeded
		cancel()
		if timedOut {
			err = fmt.Errorf("no message within %s: %w", s.cfg.IdleTimeout, context.DeadlineExceeded)
		}

		select {
		case s.frames <- frame{data: data, err: err}:
		case <-s.ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// run is the single event goroutine.
func (s *Session) run() {
	defer close(s.done)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r, "session crashed", "sessionId", s.id)
			s.fail(fmt.Errorf("internal error: %v", r))
		}
	}()

	streaming := true
	pendingVerify := false
	for streaming || pendingVerify {
		select {
		case <-s.ctx.Done():
			return

		case f := <-s.frames:
			if f.err != nil {
				s.handleStreamEnd(f.err)
				streaming = false
				break
			}
			started := s.handleFrame(f.data)
			pendingVerify = pendingVerify || started
			if s.State() == StateNotConvergent {
				s.closeConn("not convergent")
				s.cancel()
				s.emit()
				return
			}

		case v := <-s.verified:
			pendingVerify = false
			s.handleVerification(v)
		}
		s.emit()
	}
}

// handleFrame applies one inbound message. It reports whether a
// verification call was started.
func (s *Session) handleFrame(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages++
	if s.state == StateOpen {
		s.state = StateStreaming
	}

	msg, err := Decode(data)
	if err != nil {
		s.dropped++
		s.log.Warn("dropping stream message", "error", err, "size", len(data))
		return false
	}
	s.log.Debug("stream message", "kind", msg.Kind)

	switch msg.Kind {
	case KindLimit:
		first := s.limit == ""
		s.limit = msg.Limit
		s.limitDisplay = s.displayLimit(msg.Limit)
		if first {
			return s.beginVerification(msg.Limit)
		}

	case KindConvergent:
		if msg.Convergent == nil {
			break
		}
		v := *msg.Convergent
		s.convergent = &v
		if !v {
			s.state = StateNotConvergent
			s.log.Info("backend reported divergence")
		}

	case KindConvergesTo:
		for _, raw := range msg.Expressions {
			res := s.cfg.Normalizer.Normalize(raw, normalize.SourceRelationFinder, normalize.Options{Metadata: s.meta})
			s.closedForms = append(s.closedForms, ClosedForm{
				Source:  normalize.SourceRelationFinder,
				Raw:     raw,
				Display: res.Display(),
				Cleaned: res.Cleaned,
			})
		}

	case KindSeeAlso:
		for _, raw := range msg.Expressions {
			rel := fraction.FormatSeeAlso(raw, s.cfg.Normalizer, normalize.Options{Metadata: s.meta})
			s.seeAlso = append(s.seeAlso, RelatedFraction{Raw: raw, Display: rel.Display(), OK: rel.OK})
		}

	default:
		name, _ := msg.Series()
		if err := s.acc.Append(name, msg.Points); err != nil {
			s.log.Warn("dropping series batch", "series", name, "error", err)
		}
	}
	return false
}

// handleStreamEnd maps the reader's terminating error to a final state.
func (s *Session) handleStreamEnd(err error) {
	status := websocket.CloseStatus(err)
	if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
		s.fail(err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.convergent != nil && *s.convergent {
		s.state = StateConverged
	} else {
		s.state = StateClosed
	}
	s.log.Info("stream ended", "state", s.state, "messages", s.messages)
}

func (s *Session) displayLimit(limit string) string {
	switch limit {
	case "Infinity", "inf", "oo":
		return `\infty`
	case "-Infinity", "-inf", "-oo":
		return `-\infty`
	}
	return series.RoundValue(limit, int32(s.cfg.DisplayDigits))
}

// beginVerification requires mu held.
func (s *Session) beginVerification(limit string) bool {
	if s.cfg.Verifier == nil {
		s.verifyState = VerifyDisabled
		return false
	}
	if !series.Numeric(limit) {
		s.verifyState = VerifySkipped
		return false
	}
	s.verifyState = VerifyPending

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.LogPanic(r, "verification crashed", "sessionId", s.id)
			}
		}()

		ctx, cancel := s.ctx, context.CancelFunc(func() {})
		if s.cfg.VerifyTimeout > 0 {
			ctx, cancel = context.WithTimeout(s.ctx, s.cfg.VerifyTimeout)
		}
		defer cancel()

		res, err := s.cfg.Verifier.Verify(ctx, limit)
		s.verified <- verification{result: res, err: err}
	}()
	return true
}

func (s *Session) handleVerification(v verification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.err != nil {
		s.verifyState = VerifyFailed
		s.log.Warn("verification failed", "error", v.err)
		return
	}
	s.verifyState = VerifyDone

	for _, m := range v.result.Metadata {
		s.meta.RegisterExternal(metadata.External{Text: m.Text, URL: m.URL})
	}
	for _, cf := range v.result.ClosedForms {
		res := s.cfg.Normalizer.Normalize(cf.Plaintext, normalize.SourceExternal, normalize.Options{Metadata: s.meta})
		s.closedForms = append(s.closedForms, ClosedForm{
			Source:      normalize.SourceExternal,
			Raw:         cf.Plaintext,
			Display:     res.Display(),
			Cleaned:     res.Cleaned,
			Title:       cf.Title,
			Description: cf.Description,
			Link:        cf.Link,
		})
	}
	s.log.Debug("verification done", "closedForms", len(v.result.ClosedForms))
}

func (s *Session) closeConn(reason string) {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	if conn != nil {
		conn.Close(websocket.StatusNormalClosure, reason)
	}
}

// fail records a transport fault. Faults after Close or after a terminal
// state are ignored.
func (s *Session) fail(err error) {
	s.mu.Lock()
	if s.state.Terminal() || s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.state = StateFailed
	s.lastErr = err.Error()
	s.mu.Unlock()

	s.log.Warn("session failed", "error", err)
	s.emit()
}

func (s *Session) renderInputs() {
	n := s.cfg.Normalizer
	s.inputA = n.Normalize(s.req.A, normalize.SourceRelationFinder, normalize.Options{Prefix: inputPrefix("a", s.req.Symbol)}).Display()
	s.inputB = n.Normalize(s.req.B, normalize.SourceRelationFinder, normalize.Options{Prefix: inputPrefix("b", s.req.Symbol)}).Display()

	frac, err := fraction.Format(s.req.A, s.req.B, s.req.Symbol)
	if err != nil {
		s.log.Debug("fraction not rendered", "error", err)
		return
	}
	s.fraction = frac.Display()
}

func inputPrefix(name, symbol string) string {
	if symbol == "" {
		return name + " = "
	}
	return name + "[" + symbol + "] = "
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// View returns a snapshot of everything accumulated so far.
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		SessionID:    s.id,
		State:        s.state,
		Request:      s.req,
		Fraction:     s.fraction,
		InputA:       s.inputA,
		InputB:       s.inputB,
		Limit:        s.limit,
		LimitDisplay: s.limitDisplay,
		ClosedForms:  append([]ClosedForm(nil), s.closedForms...),
		SeeAlso:      append([]RelatedFraction(nil), s.seeAlso...),
		Metadata:     s.meta.Entries(),
		Verification: s.verifyState,
		Series:       s.acc.Snapshot(),
		Summary:      s.acc.Summarize(int32(s.cfg.DisplayDigits)),
		Messages:     s.messages,
		Dropped:      s.dropped,
		Error:        s.lastErr,
	}
	if s.convergent != nil {
		c := *s.convergent
		v.Convergent = &c
	}
	if s.limit != "" {
		v.Disclaimer = Disclaimer
	}
	return v
}

func (s *Session) emit() {
	if s.cfg.OnUpdate != nil {
		s.cfg.OnUpdate(s.View())
	}
}

// Close tears down the connection and discards accumulated results. It is
// safe to call from any state and more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()

		s.mu.Lock()
		started := s.started
		s.started = true
		s.mu.Unlock()

		s.closeConn("")
		if started {
			<-s.done
		} else {
			close(s.done)
		}

		s.mu.Lock()
		if s.state != StateFailed && s.state != StateNotConvergent {
			s.state = StateClosed
		}
		s.acc.Reset()
		s.meta.Reset()
		s.closedForms = nil
		s.seeAlso = nil
		s.limit, s.limitDisplay = "", ""
		s.convergent = nil
		s.verifyState = VerifyNone
		s.mu.Unlock()

		s.log.Info("session closed")
		s.emit()
	})
}
