package poller

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hadrnet/modbusrtu"
	"github.com/hadrnet/modbusrtu/packet"
)

const jobHealthTickInterval = 60 * time.Second

// Operation is one unit of work a Poller repeats on its interval: issue a request against client and
// return an application-meaningful value extracted from the response.
type Operation func(ctx context.Context, client *modbus.Client) (any, error)

// Result is one successful Operation outcome together with when the request that produced it began.
type Result struct {
	Time  time.Time
	Value any
}

// Config configures a Poller.
type Config struct {
	// Logger is the logger the Poller uses. Defaults to slog.Default.
	Logger *slog.Logger

	// Interval is how often Operation is re-issued. Defaults to 1 second.
	Interval time.Duration

	// OnErrorFunc is called when Operation returns an error. Returning nil suppresses the error from
	// statistics and retry counting - useful for expected Modbus exceptions (e.g. a sensor reporting
	// "illegal data address" while warming up) a caller does not want to treat as noteworthy.
	OnErrorFunc func(err error) error

	// TimeNow allows mocking Result.Time in tests. Defaults to time.Now.
	TimeNow func() time.Time
}

// Poller periodically re-issues one Operation against one Client on a fixed interval and publishes
// successful outcomes to ResultChan. It supervises a single RTU line: one Transport, one operation, one
// interval. Running more than one kind of request against the same line means constructing more than one
// Poller sharing the same underlying Client/Transport - Transport already serializes concurrent transact
// calls, so this is safe.
type Poller struct {
	logger      *slog.Logger
	client      *modbus.Client
	op          Operation
	interval    time.Duration
	onErrorFunc func(err error) error
	timeNow     func() time.Time

	isRunning atomic.Bool
	stats     jobStatistics

	ResultChan chan Result
}

// New creates a Poller that repeats op against client.
func New(client *modbus.Client, op Operation, conf Config) *Poller {
	p := &Poller{
		logger:      conf.Logger,
		client:      client,
		op:          op,
		interval:    cmp.Or(conf.Interval, 1*time.Second),
		onErrorFunc: conf.OnErrorFunc,
		timeNow:     conf.TimeNow,
		ResultChan:  make(chan Result, 16),
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.timeNow == nil {
		p.timeNow = time.Now
	}
	return p
}

// Statistics returns a snapshot of this Poller's running counters.
func (p *Poller) Statistics() Statistics {
	return p.stats.Stats()
}

// Poll runs until ctx is cancelled, retrying with exponential backoff (capped at 1 minute) whenever a
// poll round exits with a non-terminal error.
func (p *Poller) Poll(ctx context.Context) error {
	if isRunning := p.isRunning.Swap(true); isRunning {
		return errors.New("poller is already running")
	}
	defer p.isRunning.Store(false)

	const defaultRetry = 1 * time.Second
	retryTime := defaultRetry
	delay := time.NewTimer(retryTime)
	defer delay.Stop()

	for {
		start := p.timeNow()
		p.stats.IncStartCount()
		p.stats.IsPolling(true)
		err := p.poll(ctx)
		p.stats.IsPolling(false)

		if err == nil || ctx.Err() != nil {
			return nil
		}
		elapsed := p.timeNow().Sub(start)
		if elapsed > 1*time.Minute {
			retryTime = defaultRetry
		} else {
			retryTime *= 2
			if retryTime > 1*time.Minute {
				retryTime = 1 * time.Minute
			}
		}
		p.logger.Error("poll failed", "error", err, "elapsed", elapsed, "retry_time", retryTime)

		delay.Reset(retryTime)
		select {
		case <-delay.C:
			continue
		case <-ctx.Done():
			return nil
		}
	}
}

func (p *Poller) poll(ctx context.Context) error {
	healthTicker := time.NewTicker(jobHealthTickInterval)
	defer healthTicker.Stop()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	const maxConsecutiveErrors = 5
	consecutiveErrs := 0
	for {
		select {
		case <-ticker.C:
			start := p.timeNow()
			value, err := p.op(ctx, p.client)
			reqDuration := p.timeNow().Sub(start)

			if err != nil && p.onErrorFunc != nil {
				err = p.onErrorFunc(err)
				if err == nil {
					continue
				}
			}
			if err != nil {
				consecutiveErrs++
				p.stats.IncRequestErrCount()

				var mbErr *packet.ModbusError
				if errors.As(err, &mbErr) {
					p.stats.IncRequestModbusErrCount()
				}
				p.logger.Error("request failed", "err", err, "req_duration", reqDuration, "err_count", consecutiveErrs)

				if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
					return err
				}
				if consecutiveErrs >= maxConsecutiveErrors {
					return err
				}
				continue
			}
			consecutiveErrs = 0
			p.stats.IncRequestOKCount()

			result := Result{Time: start, Value: value}
			select {
			case p.ResultChan <- result:
				p.logger.Log(ctx, slog.Level(-8), "request success", "req_duration", reqDuration, "value", value)
			default:
				p.stats.IncSendSkipCount()
				p.logger.Warn("skipped value send to result chan")
			}
		case <-healthTicker.C:
			p.logger.Debug("poller health tick", "stats", p.stats.Stats())
		case <-ctx.Done():
			p.logger.Info("poller done")
			return ctx.Err()
		}
	}
}

// Statistics holds running counters about a Poller's polling history.
type Statistics struct {
	// IsPolling is true while a request is in flight or the poller is waiting between ticks, false while
	// waiting out a retry backoff after a terminal poll error.
	IsPolling bool

	// StartCount is how many times the poll loop has (re)started after a retry.
	StartCount uint64

	// RequestOKCount is how many Operation calls have succeeded.
	RequestOKCount uint64

	// RequestErrCount is the total count of failed Operation calls, modbus or transport errors alike.
	RequestErrCount uint64

	// RequestModbusErrCount is how many failed Operation calls failed with a *packet.ModbusError.
	RequestModbusErrCount uint64

	// SendSkipCount is how many results were dropped because ResultChan was full.
	SendSkipCount uint64
}

type jobStatistics struct {
	lock  sync.RWMutex
	stats Statistics
}

func (j *jobStatistics) IsPolling(isPolling bool) {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.stats.IsPolling = isPolling
}

func (j *jobStatistics) IncStartCount() {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.stats.StartCount++
}

func (j *jobStatistics) IncRequestOKCount() {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.stats.RequestOKCount++
}

func (j *jobStatistics) IncRequestErrCount() {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.stats.RequestErrCount++
}

func (j *jobStatistics) IncRequestModbusErrCount() {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.stats.RequestModbusErrCount++
}

func (j *jobStatistics) IncSendSkipCount() {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.stats.SendSkipCount++
}

func (j *jobStatistics) Stats() Statistics {
	j.lock.RLock()
	defer j.lock.RUnlock()
	return j.stats
}
