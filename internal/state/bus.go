package state

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/signal"
)

// Bus broadcasts every dispatched action to its subscribers, synchronously
// and exactly once. There is no buffering: late subscribers miss earlier
// actions. A panicking subscriber is logged and skipped; the rest still run.
type Bus struct {
	subject signal.Subject[Action]
	logger  *log.Logger
}

// NewBus creates a bus that reports subscriber failures to logger.
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bus{logger: logger}
}

// Subscribe registers fn for every action published from now on.
func (b *Bus) Subscribe(fn func(Action)) signal.Subscription {
	return b.subject.Subscribe(func(a Action) {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("subscriber failed", "type", a.Type(), "panic", fmt.Sprint(r))
			}
		}()
		fn(a)
	})
}

// Publish delivers a to every current subscriber.
func (b *Bus) Publish(a Action) {
	b.subject.Emit(a)
}

// OfType subscribes fn to the actions built by c only.
func OfType[P any](b *Bus, c Creator[P], fn func(P)) signal.Subscription {
	return b.Subscribe(func(a Action) {
		if p, ok := c.Match(a); ok {
			fn(p)
		}
	})
}
