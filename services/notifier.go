package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/dinein/utils"
)

// Subscriber channels. They double as the roles allowed to listen on them.
const (
	ChannelKitchen = utils.RoleKitchen
	ChannelCaptain = utils.RoleCaptain
)

// Notification is one message for the subscribers of (BranchID, Channel).
type Notification struct {
	BranchID string
	Channel  string
	Payload  interface{}
}

// Broadcaster delivers a notification to its subscribers.
type Broadcaster interface {
	Broadcast(ctx context.Context, n Notification) error
}

// Dispatcher accepts notifications without blocking the caller.
type Dispatcher interface {
	Notify(n Notification)
}

// Fanout delivers to every broadcaster and joins their errors.
type Fanout []Broadcaster

func (f Fanout) Broadcast(ctx context.Context, n Notification) error {
	var errs []error
	for _, b := range f {
		if err := b.Broadcast(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Notifier queues notifications in memory and delivers them from a single
// goroutine. Delivery is at most once: a full queue drops the message and a
// failed delivery is logged, never retried.
type Notifier struct {
	Target   Broadcaster
	Timeout  time.Duration
	StopChan chan struct{}

	queue    chan Notification
	done     chan struct{}
	stopOnce sync.Once
}

func NewNotifier(target Broadcaster, queueSize int, timeout time.Duration) *Notifier {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Notifier{
		Target:   target,
		Timeout:  timeout,
		StopChan: make(chan struct{}),
		queue:    make(chan Notification, queueSize),
		done:     make(chan struct{}),
	}
}

func (n *Notifier) Start() {
	go func() {
		defer close(n.done)
		for {
			select {
			case msg := <-n.queue:
				n.deliver(msg)
			case <-n.StopChan:
				n.drain()
				return
			}
		}
	}()
}

// Stop delivers whatever is already queued, then returns.
func (n *Notifier) Stop() {
	n.stopOnce.Do(func() {
		close(n.StopChan)
	})
	<-n.done
}

func (n *Notifier) Notify(msg Notification) {
	select {
	case n.queue <- msg:
	default:
		utils.ErrorLogger.WithFields(logrus.Fields{
			"channel":   msg.Channel,
			"branch_id": msg.BranchID,
		}).Warn("notification queue full, dropping message")
	}
}

func (n *Notifier) drain() {
	for {
		select {
		case msg := <-n.queue:
			n.deliver(msg)
		default:
			return
		}
	}
}

func (n *Notifier) deliver(msg Notification) {
	ctx := context.Background()
	if n.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}

	if err := n.Target.Broadcast(ctx, msg); err != nil {
		utils.ErrorLogger.WithError(err).WithFields(logrus.Fields{
			"channel":   msg.Channel,
			"branch_id": msg.BranchID,
		}).Error("notification delivery failed")
	}
}
