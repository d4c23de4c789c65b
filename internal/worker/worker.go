// Package worker drains the reducer's effect stream against the live
// service. A fixed pool of goroutines executes remote effects, shaped by a
// shared token bucket, and feeds completion actions back to the program
// loop. Persistence effects (visit history, presets) are fire-and-forget:
// their failures are logged, never surfaced.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"flowdeck/internal/app"
	"flowdeck/internal/client"
	"flowdeck/internal/domain"
	"flowdeck/internal/kinds"
	"flowdeck/internal/nav"
)

const (
	DefaultWorkers     = 4
	DefaultCallTimeout = 10 * time.Second
	DefaultRPS         = 10
	DefaultBurst       = 5

	queueDepth = 64

	// historyPageSize is the server page size for history loads; the
	// reducer chains pages until it has what it wants.
	historyPageSize = 100

	terminateReason = "terminated via flowdeck"
)

// Store is the slice of the persistence layer the worker writes through.
type Store interface {
	RecordVisit(ctx context.Context, uri string) error
	SetLastLocation(ctx context.Context, uri string) error
	SavePreset(ctx context.Context, name, kind, query string) error
	LookupPreset(ctx context.Context, name string) (kind, query string, ok bool, err error)
}

type Config struct {
	// Workers bounds how many effects execute concurrently.
	Workers int
	// CallTimeout bounds each remote call.
	CallTimeout time.Duration
	// RPS and Burst shape the token bucket shared by all remote calls.
	RPS   rate.Limit
	Burst int
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	if c.RPS <= 0 {
		c.RPS = DefaultRPS
	}
	if c.Burst <= 0 {
		c.Burst = DefaultBurst
	}
	return c
}

// Pool executes effects on a fixed set of goroutines. Completion order is
// not submission order; the sequence numbers stamped on load effects let
// the reducer drop whatever arrives late.
type Pool struct {
	cfg     Config
	cl      client.Client
	st      Store
	log     *slog.Logger
	limiter *rate.Limiter

	jobs    chan kinds.Effect
	actions chan app.Action

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cl client.Client, st Store, log *slog.Logger, cfg Config) *Pool {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		cfg:     cfg,
		cl:      cl,
		st:      st,
		log:     log,
		limiter: rate.NewLimiter(cfg.RPS, cfg.Burst),
		jobs:    make(chan kinds.Effect, queueDepth),
		actions: make(chan app.Action, queueDepth),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.drain()
	}
}

// Actions is the completion stream. It closes after Close returns.
func (p *Pool) Actions() <-chan app.Action { return p.actions }

// Submit enqueues one effect for execution.
func (p *Pool) Submit(e kinds.Effect) {
	select {
	case p.jobs <- e:
	case <-p.ctx.Done():
	}
}

// Close cancels in-flight calls, waits the workers out, and closes the
// action stream.
func (p *Pool) Close() {
	p.cancel()
	p.wg.Wait()
	close(p.actions)
}

func (p *Pool) drain() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case e := <-p.jobs:
			if a := p.execute(p.ctx, e); a != nil {
				p.emit(a)
			}
		}
	}
}

func (p *Pool) emit(a app.Action) {
	select {
	case p.actions <- a:
	case <-p.ctx.Done():
	}
}

// execute resolves one effect into at most one completion action. Remote
// effects always complete, success or failure; persistence effects and
// unroutable strays complete as nothing.
func (p *Pool) execute(ctx context.Context, e kinds.Effect) app.Action {
	switch e := e.(type) {
	case kinds.LoadCollection:
		return p.loadCollection(ctx, e)
	case kinds.LoadDetail:
		return p.loadDetail(ctx, e)
	case kinds.CountCollection:
		return p.countCollection(ctx, e)
	case kinds.LoadNamespaces:
		return p.loadNamespaces(ctx, e)
	case kinds.RunOperation:
		return p.runOperation(ctx, e)
	case kinds.LoadPreset:
		return p.loadPreset(ctx, e)
	case kinds.SavePreset:
		if err := p.st.SavePreset(ctx, e.Name, string(e.Kind), e.Query); err != nil {
			p.log.Warn("save preset failed", "name", e.Name, "err", err)
		}
		return nil
	case kinds.RecordVisit:
		if err := p.st.RecordVisit(ctx, e.URI); err != nil {
			p.log.Warn("record visit failed", "uri", e.URI, "err", err)
		}
		// The newest visit doubles as the resume point for --resume.
		if err := p.st.SetLastLocation(ctx, e.URI); err != nil {
			p.log.Warn("save last location failed", "err", err)
		}
		return nil
	default:
		// Timers, clipboard and quit belong to the shell; one landing here
		// is a wiring bug.
		p.log.Error("unroutable effect", "type", fmt.Sprintf("%T", e))
		return nil
	}
}

// call runs one remote call under the shared rate limit and the per-call
// timeout.
func (p *Pool) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	cctx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
	defer cancel()
	return fn(cctx)
}

func (p *Pool) loadCollection(ctx context.Context, e kinds.LoadCollection) app.Action {
	req := client.ListRequest{
		Namespace: e.Namespace,
		Query:     e.Query,
		PageSize:  e.PageSize,
		PageToken: e.PageToken,
	}
	if e.Kind == nav.KindSchedules {
		var page domain.SchedulePage
		err := p.call(ctx, func(ctx context.Context) error {
			var err error
			page, err = p.cl.ListSchedules(ctx, req)
			return err
		})
		if err != nil {
			return app.DataLoadFailed{Seq: e.Seq, Err: err}
		}
		return app.DataLoaded{Seq: e.Seq, Payload: app.SchedulesPage{Page: page}}
	}

	var page domain.WorkflowPage
	err := p.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = p.cl.ListWorkflows(ctx, req)
		return err
	})
	if err != nil {
		return app.DataLoadFailed{Seq: e.Seq, Err: err}
	}
	return app.DataLoaded{Seq: e.Seq, Payload: app.WorkflowsPage{Page: page, Append: e.Append}}
}

func (p *Pool) loadDetail(ctx context.Context, e kinds.LoadDetail) app.Action {
	if e.Kind == nav.KindSchedules {
		var item domain.Schedule
		err := p.call(ctx, func(ctx context.Context) error {
			var err error
			item, err = p.cl.DescribeSchedule(ctx, e.Namespace, e.Target.ID)
			return err
		})
		if err != nil {
			return app.DataLoadFailed{Seq: e.Seq, Err: err}
		}
		return app.DataLoaded{Seq: e.Seq, Payload: app.ScheduleDetailData{ID: e.Target.ID, Item: item}}
	}

	switch e.Part {
	case kinds.PartHistory:
		var page domain.HistoryPage
		err := p.call(ctx, func(ctx context.Context) error {
			var err error
			page, err = p.cl.WorkflowHistory(ctx, e.Namespace, e.Target.ID, e.Target.RunID, historyPageSize, e.PageToken)
			return err
		})
		if err != nil {
			return app.DataLoadFailed{Seq: e.Seq, Err: err}
		}
		return app.DataLoaded{Seq: e.Seq, Payload: app.WorkflowHistoryData{
			Target: e.Target,
			Page:   page,
			Append: len(e.PageToken) > 0,
		}}

	case kinds.PartTaskQueue:
		var info domain.TaskQueueInfo
		err := p.call(ctx, func(ctx context.Context) error {
			var err error
			info, err = p.cl.DescribeTaskQueue(ctx, e.Namespace, e.TaskQueue)
			return err
		})
		if err != nil {
			return app.DataLoadFailed{Seq: e.Seq, Err: err}
		}
		return app.DataLoaded{Seq: e.Seq, Payload: app.TaskQueueData{Info: info}}

	default:
		var detail domain.WorkflowDetail
		err := p.call(ctx, func(ctx context.Context) error {
			var err error
			detail, err = p.cl.DescribeWorkflow(ctx, e.Namespace, e.Target.ID, e.Target.RunID)
			return err
		})
		if err != nil {
			return app.DataLoadFailed{Seq: e.Seq, Err: err}
		}
		return app.DataLoaded{Seq: e.Seq, Payload: app.WorkflowDetailData{Target: e.Target, Detail: detail}}
	}
}

func (p *Pool) countCollection(ctx context.Context, e kinds.CountCollection) app.Action {
	if e.Kind != nav.KindWorkflows {
		p.log.Error("no count for kind", "kind", string(e.Kind))
		return nil
	}
	var n int64
	err := p.call(ctx, func(ctx context.Context) error {
		var err error
		n, err = p.cl.CountWorkflows(ctx, e.Namespace, e.Query)
		return err
	})
	if err != nil {
		return app.DataLoadFailed{Seq: e.Seq, Err: err}
	}
	return app.DataLoaded{Seq: e.Seq, Payload: app.WorkflowCount{Count: n}}
}

func (p *Pool) loadNamespaces(ctx context.Context, e kinds.LoadNamespaces) app.Action {
	var items []domain.Namespace
	err := p.call(ctx, func(ctx context.Context) error {
		var err error
		items, err = p.cl.ListNamespaces(ctx)
		return err
	})
	if err != nil {
		return app.DataLoadFailed{Seq: e.Seq, Err: err}
	}
	return app.DataLoaded{Seq: e.Seq, Payload: app.NamespacesData{Items: items}}
}

func (p *Pool) runOperation(ctx context.Context, e kinds.RunOperation) app.Action {
	err := p.call(ctx, func(ctx context.Context) error {
		return p.invoke(ctx, e)
	})
	if err != nil {
		return app.OperationFailed{Kind: e.Kind, Op: e.Op, Target: e.Target, Args: e.Args, Err: err}
	}
	return app.OperationDone{Kind: e.Kind, Op: e.Op, Target: e.Target}
}

// invoke maps an operation onto its remote call. Args follow the
// conventions set by the kind specs: the pause direction in Args[0], a
// signal's name and optional payload in Args[0] and Args[1].
func (p *Pool) invoke(ctx context.Context, e kinds.RunOperation) error {
	ns, t := e.Namespace, e.Target
	switch e.Kind {
	case nav.KindWorkflows:
		switch e.Op {
		case kinds.OpCancel:
			return p.cl.CancelWorkflow(ctx, ns, t.ID, t.RunID)
		case kinds.OpTerminate:
			return p.cl.TerminateWorkflow(ctx, ns, t.ID, t.RunID, terminateReason)
		case kinds.OpSignal:
			return p.cl.SignalWorkflow(ctx, ns, t.ID, t.RunID, argAt(e.Args, 0), argAt(e.Args, 1))
		}
	case nav.KindSchedules:
		switch e.Op {
		case kinds.OpPause:
			pause := argAt(e.Args, 0) != "unpause"
			note := "paused via flowdeck"
			if !pause {
				note = "resumed via flowdeck"
			}
			return p.cl.PauseSchedule(ctx, ns, t.ID, pause, note)
		case kinds.OpTrigger:
			return p.cl.TriggerSchedule(ctx, ns, t.ID)
		case kinds.OpDelete:
			return p.cl.DeleteSchedule(ctx, ns, t.ID)
		}
	}
	return fmt.Errorf("no remote call for %s %s", e.Kind, e.Op)
}

func (p *Pool) loadPreset(ctx context.Context, e kinds.LoadPreset) app.Action {
	kind, query, ok, err := p.st.LookupPreset(ctx, e.Name)
	if err != nil {
		p.log.Warn("load preset failed", "name", e.Name, "err", err)
		return app.PresetLoaded{Name: e.Name}
	}
	return app.PresetLoaded{Name: e.Name, Kind: nav.Kind(kind), Query: query, Found: ok}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
