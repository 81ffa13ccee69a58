package coinlist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"crypto_tracker/internal/domain"
	"crypto_tracker/internal/engine"
	"crypto_tracker/internal/event"
	"crypto_tracker/internal/ui/model"
)

const (
	DefaultHistoryWindow = 5 * 24 * time.Hour
	DefaultStopTimeout   = 5 * time.Second

	recordTimeout = 2 * time.Second
)

// Recorder receives journal events. Failures are logged and otherwise ignored.
type Recorder interface {
	Record(ctx context.Context, ev event.Event) error
}

// Option configures a ViewModel.
type Option func(*ViewModel)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(vm *ViewModel) { vm.now = now }
}

// WithLocation sets the zone used for chart labels.
func WithLocation(loc *time.Location) Option {
	return func(vm *ViewModel) { vm.loc = loc }
}

// WithHistoryWindow sets how far back history is requested.
func WithHistoryWindow(d time.Duration) Option {
	return func(vm *ViewModel) { vm.historyWindow = d }
}

// WithStopTimeout sets how long the state flow stays active without subscribers.
func WithStopTimeout(d time.Duration) Option {
	return func(vm *ViewModel) { vm.stopTimeout = d }
}

// WithEventBuffer sets the one-shot event queue capacity.
func WithEventBuffer(n int) Option {
	return func(vm *ViewModel) { vm.eventBuffer = n }
}

// WithRecorder attaches a journal.
func WithRecorder(r Recorder) Option {
	return func(vm *ViewModel) { vm.recorder = r }
}

// ViewModel owns the coin list screen state. All work it launches is bound to
// its scope and cancelled by Close.
type ViewModel struct {
	dataSource domain.CoinDataSource
	state      *engine.SharedStateFlow[CoinListState]
	events     *event.Queue[CoinListEvent]
	recorder   Recorder

	now           func() time.Time
	loc           *time.Location
	historyWindow time.Duration
	stopTimeout   time.Duration
	eventBuffer   int

	initialDataLoaded atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewViewModel creates a view model whose scope derives from ctx.
func NewViewModel(ctx context.Context, dataSource domain.CoinDataSource, opts ...Option) *ViewModel {
	vm := &ViewModel{
		dataSource:    dataSource,
		now:           time.Now,
		loc:           time.Local,
		historyWindow: DefaultHistoryWindow,
		stopTimeout:   DefaultStopTimeout,
		eventBuffer:   event.DefaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(vm)
	}

	vm.ctx, vm.cancel = context.WithCancel(ctx)
	vm.events = event.NewQueue[CoinListEvent](vm.eventBuffer)
	vm.state = engine.NewSharedStateFlow(NewCoinListState(), vm.stopTimeout, vm.onStart)
	return vm
}

// State subscribes to state snapshots until ctx is done. The first subscriber
// triggers the initial load.
func (vm *ViewModel) State(ctx context.Context) <-chan CoinListState {
	return vm.state.Subscribe(ctx)
}

// CurrentState returns the latest snapshot.
func (vm *ViewModel) CurrentState() CoinListState {
	return vm.state.Value()
}

// Events attaches the single consumer of one-shot events.
func (vm *ViewModel) Events(ctx context.Context) (<-chan CoinListEvent, error) {
	return vm.events.Consume(ctx)
}

// OnAction dispatches a user action. Unsupported actions are ignored.
func (vm *ViewModel) OnAction(action Action) {
	switch a := action.(type) {
	case OnCoinClick:
		vm.selectCoin(a.Coin)
	case OnRefresh:
		vm.loadCoins()
	default:
		slog.Debug("Ignoring unsupported action", slog.String("action", fmt.Sprintf("%T", action)))
	}
}

// Close cancels in-flight work and waits for it to finish.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return
	}
	vm.closed = true
	vm.mu.Unlock()

	vm.cancel()
	vm.wg.Wait()
	vm.state.Close()
}

func (vm *ViewModel) onStart() {
	if !vm.initialDataLoaded.CompareAndSwap(false, true) {
		return
	}
	vm.loadCoins()
}

func (vm *ViewModel) loadCoins() {
	_, started := vm.state.TryUpdate(func(s CoinListState) (CoinListState, bool) {
		if s.IsLoading {
			return s, false
		}
		return s.withLoading(true), true
	})
	if !started {
		slog.Debug("Coin list load already in flight")
		return
	}

	launched := vm.launch(func(ctx context.Context) {
		coins, err := vm.dataSource.GetCoins(ctx)
		if ctx.Err() != nil {
			vm.state.Update(func(s CoinListState) CoinListState { return s.withLoading(false) })
			return
		}
		if err != nil {
			netErr := domain.AsNetworkError(err)
			vm.state.Update(func(s CoinListState) CoinListState { return s.withLoading(false) })
			vm.events.Push(ErrorEvent{Err: netErr})
			slog.Warn("Coin list load failed", slog.String("kind", netErr.Kind.String()))
			vm.record(event.LoadFailedEvent{BaseEvent: event.NewBase(vm.now()), Op: "coins", Kind: netErr.Kind.String()})
			return
		}

		uis := model.ToCoinUis(coins)
		vm.state.Update(func(s CoinListState) CoinListState { return s.withCoins(uis) })
		slog.Info("Coin list loaded", slog.Int("count", len(uis)))
		vm.record(event.CoinsLoadedEvent{BaseEvent: event.NewBase(vm.now()), Count: len(uis)})
	})

	if !launched {
		vm.state.Update(func(s CoinListState) CoinListState { return s.withLoading(false) })
	}
}

func (vm *ViewModel) selectCoin(coin model.CoinUi) {
	_, found := vm.state.TryUpdate(func(s CoinListState) (CoinListState, bool) {
		if _, ok := s.FindCoin(coin.ID); !ok {
			return s, false
		}
		return s.withSelected(coin), true
	})
	if !found {
		slog.Warn("Ignoring click on a coin that is not loaded", slog.String("coin", coin.ID))
		return
	}

	end := vm.now()
	start := end.Add(-vm.historyWindow)

	vm.launch(func(ctx context.Context) {
		vm.record(event.CoinSelectedEvent{BaseEvent: event.NewBase(vm.now()), CoinID: coin.ID})

		history, err := vm.dataSource.GetCoinHistory(ctx, coin.ID, start, end)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			netErr := domain.AsNetworkError(err)
			vm.events.Push(ErrorEvent{CoinID: coin.ID, Err: netErr})
			slog.Warn("Coin history load failed", slog.String("coin", coin.ID), slog.String("kind", netErr.Kind.String()))
			vm.record(event.LoadFailedEvent{BaseEvent: event.NewBase(vm.now()), Op: "history", CoinID: coin.ID, Kind: netErr.Kind.String()})
			return
		}

		points := model.ToDataPoints(history, vm.loc)
		_, applied := vm.state.TryUpdate(func(s CoinListState) (CoinListState, bool) {
			// The user may have picked another coin while this request was in flight.
			if s.SelectedCoin == nil || s.SelectedCoin.ID != coin.ID {
				return s, false
			}
			return s.withSelectedHistory(points), true
		})
		if !applied {
			slog.Debug("Selection changed, discarding history", slog.String("coin", coin.ID))
			return
		}
		vm.record(event.HistoryLoadedEvent{BaseEvent: event.NewBase(vm.now()), CoinID: coin.ID, Points: len(points)})
	})
}

// launch runs fn in a goroutine tied to the view model scope.
// It reports false once the view model is closed.
func (vm *ViewModel) launch(fn func(ctx context.Context)) bool {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return false
	}
	vm.wg.Add(1)
	vm.mu.Unlock()

	go func() {
		defer vm.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("View model task panic recovered", slog.Any("panic", r))
			}
		}()
		fn(vm.ctx)
	}()
	return true
}

func (vm *ViewModel) record(ev event.Event) {
	if vm.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := vm.recorder.Record(ctx, ev); err != nil {
		slog.Warn("Journal write failed", slog.String("type", ev.GetType().String()), slog.Any("error", err))
	}
}
