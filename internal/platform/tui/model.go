package tui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dungeon-conquerors/internal/config"
	"github.com/vovakirdan/dungeon-conquerors/internal/core"
	"github.com/vovakirdan/dungeon-conquerors/internal/game"
	"github.com/vovakirdan/dungeon-conquerors/internal/storage"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

// Options configures a game model.
type Options struct {
	Config    config.DungeonConfig
	Runtime   core.RuntimeConfig
	Store     *storage.Store // nil disables run history
	Player    string
	Logger    *log.Logger
	Publisher game.Publisher
}

// round is the live session shared by every copy of a Model, so the SSH
// server can stop it after the program has exited.
type round struct {
	mu      sync.Mutex
	session *game.Session
	result  game.Result
	done    bool           // claimed for stopping
	pending sync.WaitGroup // claimed sessions not yet stopped and recorded
}

func (r *round) current() *game.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// claim marks the current session done and returns it. It returns nil when
// the session was already claimed.
func (r *round) claim() *game.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return nil
	}
	r.done = true
	r.pending.Add(1)
	return r.session
}

// roundDoneMsg reports that a claimed session has stopped and been recorded.
type roundDoneMsg struct {
	Result game.Result
}

// Model is the Bubble Tea model for one player's dungeon.
type Model struct {
	opts   Options
	log    *log.Logger
	screen *core.Screen
	keys   KeyMap
	help   help.Model
	round  *round
	snap   world.Snapshot

	quitting bool
}

// NewModel creates the model and its first session.
func NewModel(opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Player == "" {
		opts.Player = "player"
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = core.DefaultConfig().TickRate
	}

	m := Model{
		opts:   opts,
		log:    opts.Logger,
		screen: core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH-1),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		round:  &round{},
	}
	m.help.Width = opts.Runtime.ScreenW
	if err := m.newSession(opts.Runtime.Seed); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) newSession(seed int64) error {
	sess, err := game.New(game.Options{
		Config:    m.opts.Config,
		Seed:      seed,
		Logger:    m.log,
		Publisher: m.opts.Publisher,
	})
	if err != nil {
		return err
	}
	r := m.round
	r.mu.Lock()
	r.session = sess
	r.result = game.Result{}
	r.done = false
	r.mu.Unlock()
	m.snap = sess.Snapshot()
	return nil
}

// Init starts the agents and the frame loop. The session's supervisor owns
// agent cancellation.
func (m Model) Init() tea.Cmd {
	m.round.current().Start(context.Background())
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height-1)
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		return m.handleTick()
	case roundDoneMsg:
		m.log.Debug("round stopped", "outcome", msg.Result.Outcome, "score", msg.Result.Score)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg)
	switch action {
	case core.ActionQuit:
		m.Close()
		m.quitting = true
		return m, tea.Quit
	case core.ActionEscape:
		m.round.current().Escape()
	case core.ActionRestart:
		if !m.snap.GameOver {
			return m, nil
		}
		stop := m.stopCmd()
		if err := m.newSession(0); err != nil {
			m.log.Error("cannot restart", "error", err)
			m.quitting = true
			return m, tea.Sequence(stop, tea.Quit)
		}
		m.round.current().Start(context.Background())
		return m, tea.Batch(stop, tickCmd(m.opts.Runtime.TickRate))
	default:
		if dx, dy, ok := action.Delta(); ok && !m.snap.GameOver {
			m.round.current().Move(dx, dy)
		}
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	if m.Finished() {
		return m, nil
	}
	m.snap = m.round.current().Pump().Snapshot
	if m.snap.GameOver {
		// The frame loop rests until a restart.
		return m, m.stopCmd()
	}
	return m, tickCmd(m.opts.Runtime.TickRate)
}

// Finished reports whether the current round is over and claimed for
// stopping. The run may still be in the middle of being recorded.
func (m Model) Finished() bool {
	m.round.mu.Lock()
	defer m.round.mu.Unlock()
	return m.round.done
}

// stopCmd claims the current session and stops it off the update loop, since
// the agent shutdown can take a grace period. The stop starts right away so
// Close never waits on a command the program dropped while quitting.
func (m Model) stopCmd() tea.Cmd {
	sess := m.round.claim()
	if sess == nil {
		return nil
	}
	done := make(chan game.Result, 1)
	go func() { done <- m.record(sess) }()
	return func() tea.Msg {
		return roundDoneMsg{Result: <-done}
	}
}

// record stops a claimed session and saves its run.
func (m Model) record(sess *game.Session) game.Result {
	r := m.round
	defer r.pending.Done()

	res := sess.Stop()
	r.mu.Lock()
	r.result = res
	r.mu.Unlock()

	if res.Outcome == world.OutcomePlaying || m.opts.Store == nil {
		return res
	}
	id, err := m.opts.Store.SaveRun(storage.Run{
		Player:   m.opts.Player,
		Score:    res.Score,
		Level:    res.Level,
		Outcome:  string(res.Outcome),
		Duration: int(res.Duration / time.Second),
		Seed:     res.Seed,
	})
	if err != nil {
		m.log.Warn("could not save run", "error", err)
		return res
	}
	m.log.Info("run saved", "id", id, "player", m.opts.Player, "score", res.Score, "outcome", res.Outcome)
	return res
}

// Close ends an unfinished round as exited and waits until every claimed
// session has been stopped and recorded.
func (m Model) Close() {
	if sess := m.round.claim(); sess != nil {
		sess.Escape()
		m.record(sess)
	}
	m.round.pending.Wait()
}

// Result returns the summary of the last finished round.
func (m Model) Result() game.Result {
	m.round.mu.Lock()
	defer m.round.mu.Unlock()
	return m.round.result
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the dungeon, the HUD and the help line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	Draw(m.screen, &m.snap, game.PlayerID)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Run plays a local game in the alternate screen and returns the final
// round summary.
func Run(opts Options) (game.Result, error) {
	model, err := NewModel(opts)
	if err != nil {
		return game.Result{}, err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	model.Close()
	return model.Result(), err
}
