package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-drift/typedtext/pkg/animation"
)

// tickMsg is delivered by tea.Tick for a registration.
type tickMsg struct {
	id animation.Handle
}

// Scheduler is an animation.Scheduler backed by bubbletea commands.
//
// Registrations are turned into tea.Tick commands; callbacks run inside
// Update, on the program's event loop. The model must pass tick messages to
// Handle and return Flush's command from every Update.
type Scheduler struct {
	nextID  animation.Handle
	entries map[animation.Handle]*teaEntry
	pending []tea.Cmd
}

type teaEntry struct {
	interval time.Duration
	callback func()
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{entries: make(map[animation.Handle]*teaEntry)}
}

// ScheduleRepeating implements animation.Scheduler.
func (s *Scheduler) ScheduleRepeating(interval time.Duration, callback func()) animation.Handle {
	s.nextID++
	id := s.nextID
	s.entries[id] = &teaEntry{interval: max(interval, 0), callback: callback}
	s.arm(id)
	return id
}

// Cancel implements animation.Scheduler. A tick already in flight for h is
// ignored when it arrives.
func (s *Scheduler) Cancel(h animation.Handle) {
	delete(s.entries, h)
}

func (s *Scheduler) arm(id animation.Handle) {
	e := s.entries[id]
	s.pending = append(s.pending, tea.Tick(e.interval, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	}))
}

// Handle runs the callback for a tick and re-arms its registration.
func (s *Scheduler) Handle(msg tickMsg) {
	e, ok := s.entries[msg.id]
	if !ok {
		return
	}
	s.arm(msg.id)
	if e.callback != nil {
		e.callback()
	}
}

// Flush returns the commands queued since the last Flush.
func (s *Scheduler) Flush() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// Active returns the number of live registrations.
func (s *Scheduler) Active() int {
	return len(s.entries)
}

var _ animation.Scheduler = (*Scheduler)(nil)
