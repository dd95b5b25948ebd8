package remote

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"tvremote/internal/clock"
	"tvremote/internal/television"

	"go.uber.org/zap"
)

// ErrUnknownButton is returned by ParseButton for names that map to no button
var ErrUnknownButton = errors.New("unknown button")

// Button names a single key on the remote
type Button string

const (
	ButtonPower       Button = "power"
	ButtonMute        Button = "mute"
	ButtonChannelUp   Button = "channel_up"
	ButtonChannelDown Button = "channel_down"
	ButtonVolumeUp    Button = "volume_up"
	ButtonVolumeDown  Button = "volume_down"
)

// AllButtons lists every button in display order
var AllButtons = []Button{
	ButtonPower,
	ButtonMute,
	ButtonChannelUp,
	ButtonChannelDown,
	ButtonVolumeUp,
	ButtonVolumeDown,
}

// ParseButton converts a button name into a Button
func ParseButton(name string) (Button, error) {
	for _, b := range AllButtons {
		if string(b) == name {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownButton, name)
}

// State is a snapshot of the television plus change bookkeeping
type State struct {
	television.Snapshot
	Revision    uint64    `json:"revision"`
	LastChanged time.Time `json:"last_changed"`
}

// StateHandler is called after a press changed the television state
type StateHandler func(oldState, newState State)

// Subscription represents an active state change subscription
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	id     uint64
	remote *Remote
}

func (s *subscription) Unsubscribe() {
	s.remote.unsubscribe(s.id)
}

type subscriber struct {
	id      uint64
	handler StateHandler
}

// Remote serializes access to a single Television and notifies subscribers of
// every effective change
type Remote struct {
	tv     *television.Television
	clock  clock.Clock
	logger *zap.Logger

	mu          sync.Mutex
	revision    uint64
	lastChanged time.Time

	subsMu      sync.RWMutex
	subscribers []subscriber
	nextSubID   uint64

	// notified is the last revision delivered to subscribers
	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	notified   uint64
}

// NewRemote creates a remote driving tv
func NewRemote(tv *television.Television, clk clock.Clock, logger *zap.Logger) *Remote {
	r := &Remote{
		tv:          tv,
		clock:       clk,
		logger:      logger.Named("remote"),
		subscribers: make([]subscriber, 0),
	}
	r.notifyCond = sync.NewCond(&r.notifyMu)
	return r
}

// Press applies button b and returns the resulting state
func (r *Remote) Press(b Button) State {
	return r.apply(string(b), func(tv *television.Television) {
		switch b {
		case ButtonPower:
			tv.TogglePower()
		case ButtonMute:
			tv.ToggleMute()
		case ButtonChannelUp:
			tv.ChannelUp()
		case ButtonChannelDown:
			tv.ChannelDown()
		case ButtonVolumeUp:
			tv.VolumeUp()
		case ButtonVolumeDown:
			tv.VolumeDown()
		}
	})
}

// SetChannel jumps to channel n and returns the resulting state. Out of range
// channels leave the state untouched.
func (r *Remote) SetChannel(n int) State {
	return r.apply(fmt.Sprintf("channel_%d", n), func(tv *television.Television) {
		tv.SetChannel(n)
	})
}

// State returns the current state
func (r *Remote) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

func (r *Remote) stateLocked() State {
	return State{
		Snapshot:    r.tv.Snapshot(),
		Revision:    r.revision,
		LastChanged: r.lastChanged,
	}
}

// apply runs mutate under the lock and notifies subscribers if anything
// visible changed
func (r *Remote) apply(action string, mutate func(*television.Television)) State {
	r.mu.Lock()
	oldState := r.stateLocked()
	mutate(r.tv)
	changed := r.tv.Snapshot() != oldState.Snapshot
	if changed {
		r.revision++
		r.lastChanged = r.clock.Now()
	}
	newState := r.stateLocked()
	r.mu.Unlock()

	if !changed {
		r.logger.Debug("Press ignored",
			zap.String("action", action),
			zap.Bool("power_on", newState.PowerOn))
		return newState
	}

	r.logger.Info("Television state changed",
		zap.String("action", action),
		zap.Bool("power_on", newState.PowerOn),
		zap.Bool("muted", newState.Muted),
		zap.Int("volume", newState.Volume),
		zap.Int("channel", newState.Channel),
		zap.Uint64("revision", newState.Revision))

	r.deliver(oldState, newState)
	return newState
}

// deliver waits until every earlier revision has been handed to subscribers,
// then notifies them of this one
func (r *Remote) deliver(oldState, newState State) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	for r.notified != newState.Revision-1 {
		r.notifyCond.Wait()
	}
	r.notifySubscribers(oldState, newState)
	r.notified = newState.Revision
	r.notifyCond.Broadcast()
}

// Subscribe registers handler for state changes. Handlers see changes one at a
// time in revision order. A handler may read State but must not call Press or
// SetChannel.
func (r *Remote) Subscribe(handler StateHandler) Subscription {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()

	r.nextSubID++
	id := r.nextSubID
	r.subscribers = append(r.subscribers, subscriber{id: id, handler: handler})

	return &subscription{id: id, remote: r}
}

func (r *Remote) unsubscribe(id uint64) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()

	for i, s := range r.subscribers {
		if s.id == id {
			r.subscribers = append(r.subscribers[:i:i], r.subscribers[i+1:]...)
			return
		}
	}
}

// notifySubscribers calls handlers in subscription order outside the state lock
func (r *Remote) notifySubscribers(oldState, newState State) {
	r.subsMu.RLock()
	subs := make([]subscriber, len(r.subscribers))
	copy(subs, r.subscribers)
	r.subsMu.RUnlock()

	for _, s := range subs {
		s.handler(oldState, newState)
	}
}
