package interaction

import (
	"slices"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultNoticeTTL is how long a notice stays visible before auto dismissing.
const DefaultNoticeTTL = 5 * time.Second

// NoticeLevel is the severity of a notice.
type NoticeLevel string

const (
	NoticeLevelInfo  NoticeLevel = "info"
	NoticeLevelError NoticeLevel = "error"
)

// Notice is a transient user visible message.
type Notice struct {
	ID        string
	Level     NoticeLevel
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Notices is the set of transient notices of a session. Like the rest of the
// session it's owned by a single goroutine.
type Notices struct {
	ttl   time.Duration
	clock func() time.Time
	items []Notice
}

// NewNotices returns a new notice set. Zero ttl uses DefaultNoticeTTL and a nil
// clock uses time.Now.
func NewNotices(ttl time.Duration, clock func() time.Time) *Notices {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &Notices{ttl: ttl, clock: clock}
}

// Push adds a notice.
func (n *Notices) Push(level NoticeLevel, msg string) Notice {
	now := n.clock()
	notice := Notice{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Level:     level,
		Message:   msg,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	}
	n.items = append(n.items, notice)
	return notice
}

// Active returns the notices that didn't expire, expired ones are dropped.
func (n *Notices) Active() []Notice {
	now := n.clock()
	n.items = slices.DeleteFunc(n.items, func(x Notice) bool {
		return !now.Before(x.ExpiresAt)
	})
	return slices.Clone(n.items)
}

// Dismiss removes a notice before it expires.
func (n *Notices) Dismiss(id string) bool {
	before := len(n.items)
	n.items = slices.DeleteFunc(n.items, func(x Notice) bool { return x.ID == id })
	return len(n.items) != before
}
