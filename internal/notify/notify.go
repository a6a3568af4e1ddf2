// Package notify хранит короткоживущие уведомления для каждой сессии.
//
// Каждое уведомление проходит состояния visible → fading → removed по таймерам.
// Список уведомлений сессии упорядочен по времени добавления, последнее в конце.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Severity тип уведомления.
type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityBulk    Severity = "bulk"
	SeverityOutput  Severity = "output"
)

// State состояние уведомления.
type State string

const (
	StateVisible State = "visible"
	StateFading  State = "fading"
	StateRemoved State = "removed"
)

// Значения по умолчанию, как у всплывающих сообщений в интерфейсе.
const (
	DefaultDuration = 5 * time.Second
	DefaultFade     = 300 * time.Millisecond
)

// Notification снимок уведомления.
type Notification struct {
	ID        string        `json:"id"`
	Severity  Severity      `json:"severity"`
	Message   string        `json:"message"`
	State     State         `json:"state"`
	CreatedAt time.Time     `json:"created_at"`
	Duration  time.Duration `json:"duration"`
}

type entry struct {
	n     Notification
	timer *time.Timer
}

// Center раздаёт и хранит уведомления сессий.
type Center struct {
	mu       sync.Mutex
	queues   map[string][]*entry
	duration time.Duration
	fade     time.Duration
	logger   *zap.Logger
	closed   bool
}

// NewCenter создаёт Center. Нулевые длительности заменяются значениями по умолчанию.
func NewCenter(duration, fade time.Duration, logger *zap.Logger) *Center {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if fade <= 0 {
		fade = DefaultFade
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Center{
		queues:   make(map[string][]*entry),
		duration: duration,
		fade:     fade,
		logger:   logger,
	}
}

// Push добавляет уведомление в конец очереди сессии и запускает его таймер.
func (c *Center) Push(session string, severity Severity, message string) Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{n: Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		State:     StateVisible,
		CreatedAt: time.Now(),
		Duration:  c.duration,
	}}
	if c.closed {
		e.n.State = StateRemoved
		return e.n
	}

	id := e.n.ID
	e.timer = time.AfterFunc(c.duration, func() { c.startFade(session, id) })
	c.queues[session] = append(c.queues[session], e)

	c.logger.Debug("notification",
		zap.String("session", session),
		zap.String("severity", string(severity)),
		zap.String("message", message),
	)
	return e.n
}

// Dismiss переводит уведомление в fading досрочно. Возвращает false, если его нет.
func (c *Center) Dismiss(session, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.find(session, id)
	if e == nil {
		return false
	}
	if e.n.State == StateVisible {
		e.timer.Stop()
		c.fadeLocked(session, e)
	}
	return true
}

// List возвращает живые уведомления сессии в порядке добавления.
func (c *Center) List(session string) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	queue := c.queues[session]
	out := make([]Notification, 0, len(queue))
	for _, e := range queue {
		out = append(out, e.n)
	}
	return out
}

// Close останавливает все таймеры и очищает очереди.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for session, queue := range c.queues {
		for _, e := range queue {
			e.timer.Stop()
		}
		delete(c.queues, session)
	}
	c.closed = true
}

func (c *Center) startFade(session, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e := c.find(session, id); e != nil && e.n.State == StateVisible {
		c.fadeLocked(session, e)
	}
}

func (c *Center) fadeLocked(session string, e *entry) {
	e.n.State = StateFading
	id := e.n.ID
	e.timer = time.AfterFunc(c.fade, func() { c.remove(session, id) })
}

func (c *Center) remove(session, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	queue := c.queues[session]
	for i, e := range queue {
		if e.n.ID != id {
			continue
		}
		e.n.State = StateRemoved
		queue = append(queue[:i], queue[i+1:]...)
		break
	}
	if len(queue) == 0 {
		delete(c.queues, session)
		return
	}
	c.queues[session] = queue
}

func (c *Center) find(session, id string) *entry {
	for _, e := range c.queues[session] {
		if e.n.ID == id {
			return e
		}
	}
	return nil
}
