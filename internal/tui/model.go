// Package tui runs an interactive terminal front end for a Transitioner.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/go-drift/typedtext/pkg/typedtext"
)

// durationPresets are cycled with tab. The negative entry disables
// animation.
var durationPresets = []time.Duration{
	250 * time.Millisecond,
	time.Second,
	3 * time.Second,
	-1,
}

// Options configures the program.
type Options struct {
	Initial  string
	Settings typedtext.Settings
	Logger   *zap.Logger
}

// Model is the bubbletea model.
type Model struct {
	sched  *Scheduler
	text   *typedtext.Transitioner
	input  textinput.Model
	styles Styles
	width  int
}

// New creates a model showing opts.Initial.
func New(opts Options) Model {
	sched := NewScheduler()
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Type a new target and press enter"
	ti.Prompt = "› "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()

	return Model{
		sched: sched,
		text: typedtext.New(opts.Initial, sched,
			typedtext.WithSettings(opts.Settings),
			typedtext.WithLogger(logger),
		),
		input:  ti,
		styles: DefaultStyles(),
		width:  80,
	}
}

// Transitioner returns the transitioner driven by the model.
func (m Model) Transitioner() *typedtext.Transitioner {
	return m.text
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.sched.Flush())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		m.sched.Handle(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-6, 10)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.text.Dispose()
			return m, tea.Quit
		case tea.KeyEnter:
			m.text.SetTarget(m.input.Value())
			m.input.Reset()
		case tea.KeyCtrlS:
			m.text.Skip()
		case tea.KeyCtrlP:
			m.text.SetAnimatePerCharacter(!m.text.AnimatePerCharacter())
		case tea.KeyTab:
			m.text.SetAnimationDuration(nextPreset(m.text.AnimationDuration()))
		default:
			m.input, cmd = m.input.Update(msg)
		}

	default:
		m.input, cmd = m.input.Update(msg)
	}

	return m, tea.Batch(cmd, m.sched.Flush())
}

func nextPreset(current time.Duration) time.Duration {
	for i, d := range durationPresets {
		if d == current {
			return durationPresets[(i+1)%len(durationPresets)]
		}
	}
	return durationPresets[0]
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("typedtext"))
	b.WriteString("\n\n")

	shown := m.text.Current()
	if m.text.IsAnimating() {
		shown += m.styles.Cursor.Render("▌")
	}
	b.WriteString(m.styles.Text.Width(max(m.width-4, 10)).Render(shown))
	b.WriteString("\n")

	b.WriteString(m.status())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render("enter: set target • tab: duration • ctrl+p: per character • ctrl+s: skip • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) status() string {
	field := func(label, value string) string {
		return m.styles.Label.Render(label+" ") + m.styles.Value.Render(value)
	}

	duration := m.text.AnimationDuration().String()
	if !m.text.IsAnimatable() {
		duration = "instant"
	}
	parts := []string{
		field("duration", duration),
		field("per char", fmt.Sprintf("%t", m.text.AnimatePerCharacter())),
	}
	if plan, ok := m.text.Plan(); ok {
		per := m.text.AnimatePerCharacter()
		parts = append(parts,
			field("chars", fmt.Sprintf("%d", plan.CharactersToAnimate)),
			field("per tick", fmt.Sprintf("%d", typedtext.CharactersPerTick(&plan, per))),
			field("interval", typedtext.TickInterval(&plan, per, m.text.AnimationDuration()).String()),
		)
	}
	return strings.Join(parts, "  ")
}

// Run starts the interactive program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
