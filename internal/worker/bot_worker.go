// Package worker runs background reactions to store events.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kruxfinance/support-chat/internal/domain"
	"github.com/kruxfinance/support-chat/internal/events"
	"github.com/kruxfinance/support-chat/internal/service"
)

// BotRunner is the slice of the bot service the worker drives.
type BotRunner interface {
	Greet(ctx context.Context, ticketID string) (bool, error)
	Reply(ctx context.Context, ticketID string) (bool, error)
}

// BotWorker greets new tickets and answers customer messages off the request
// path. Turns for one ticket never overlap.
type BotWorker struct {
	bots   BotRunner
	delay  time.Duration
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	stopped bool
	locks   map[string]*ticketLock
}

// ticketLock is dropped from BotWorker.locks once no turn holds or waits on it.
type ticketLock struct {
	sync.Mutex
	refs int
}

// NewBotWorker constructs a worker. delay is how long a fresh ticket waits before
// the greeting.
func NewBotWorker(bots BotRunner, delay time.Duration, logger *zap.Logger) *BotWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BotWorker{
		bots:   bots,
		delay:  delay,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		locks:  make(map[string]*ticketLock),
	}
}

// RegisterHandlers subscribes the worker to ticket events.
func (w *BotWorker) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, w.handleTicketCreated)
	dispatcher.Subscribe(events.EventTicketMessageAdded, w.handleMessageAdded)
}

func (w *BotWorker) handleTicketCreated(_ context.Context, event events.Event) error {
	ticketID := event.TicketID
	w.spawn(func(ctx context.Context) {
		if w.delay > 0 {
			timer := time.NewTimer(w.delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
		}
		w.withTicketLock(ticketID, func() {
			if _, err := w.bots.Greet(ctx, ticketID); err != nil {
				w.logger.Warn("greeting failed", zap.String("ticket_id", ticketID), zap.Error(err))
			}
		})
	})
	return nil
}

func (w *BotWorker) handleMessageAdded(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketMessageAddedPayload)
	if !ok || payload.Sender != domain.SenderCustomer {
		return nil
	}
	ticketID := event.TicketID
	w.spawn(func(ctx context.Context) {
		w.withTicketLock(ticketID, func() {
			if _, err := w.bots.Reply(ctx, ticketID); err != nil {
				w.logger.Warn("bot turn failed", zap.String("ticket_id", ticketID), zap.Error(err))
			}
		})
	})
	return nil
}

// spawn runs fn on its own goroutine unless the worker is stopping. The request
// that triggered the event does not own the goroutine.
func (w *BotWorker) spawn(fn func(ctx context.Context)) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		fn(w.ctx)
	}()
}

func (w *BotWorker) withTicketLock(ticketID string, fn func()) {
	w.mu.Lock()
	lock, ok := w.locks[ticketID]
	if !ok {
		lock = &ticketLock{}
		w.locks[ticketID] = lock
	}
	lock.refs++
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(w.locks, ticketID)
		}
		w.mu.Unlock()
	}()

	lock.Lock()
	defer lock.Unlock()
	if w.ctx.Err() != nil {
		return
	}
	fn()
}

// Wait blocks until every in-flight turn has finished.
func (w *BotWorker) Wait() {
	w.wg.Wait()
}

// Stop cancels pending greetings and in-flight backend calls, then waits for the
// goroutines to exit.
func (w *BotWorker) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
	w.cancel()
	w.wg.Wait()
}

// Start wires the background handlers onto the dispatcher.
func Start(dispatcher events.Dispatcher, notifications *service.NotificationService, bots *BotWorker) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if bots != nil {
		bots.RegisterHandlers(dispatcher)
	}
}
