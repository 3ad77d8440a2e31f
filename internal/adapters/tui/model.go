// Package tui is a terminal front-end for the leaderboard view. The
// bubbletea event loop applies view messages one at a time; fetches run as
// commands and come back as messages.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/okian/leaderview/internal/domain/paging"
	"github.com/okian/leaderview/internal/domain/types"
	"github.com/okian/leaderview/internal/view"
	"github.com/okian/leaderview/pkg/logger"
)

// Fetcher loads the data the view asks for.
type Fetcher interface {
	FetchConfig(ctx context.Context) (types.MilestoneConfig, error)
	FetchLeaderboard(ctx context.Context, milestoneID string) ([]types.Entry, error)
}

// QRRenderer renders a share target for the terminal.
type QRRenderer interface {
	Text(target string) (string, error)
}

// Model is the bubbletea model of the board.
type Model struct {
	ctx     context.Context
	fetcher Fetcher
	qr      QRRenderer
	logger  logger.Logger

	state view.State
	snap  view.Snapshot

	keys    keyMap
	styles  styles
	spinner spinner.Model
	pager   paginator.Model

	cursor int
	qrText string
	width  int
}

// New creates the board model. ctx bounds every fetch.
func New(ctx context.Context, fetcher Fetcher, qr QRRenderer, opts view.Options, l logger.Logger) Model {
	if l == nil {
		l = logger.Discard()
	}
	m := Model{
		ctx:     ctx,
		fetcher: fetcher,
		qr:      qr,
		logger:  l,
		state:   view.New(opts),
		keys:    defaultKeyMap(),
		styles:  defaultStyles(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		pager:   paginator.New(),
	}
	m.spinner.Style = m.styles.cursor
	m.pager.Type = paginator.Dots
	m.pager.PerPage = paging.PageSize
	m.sync()
	return m
}

// Init mounts the view and starts the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return view.Mount{} },
		m.spinner.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case view.Msg:
		return m.dispatch(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}
	if m.snap.Dialog.Open {
		if key.Matches(msg, m.keys.closeDialog) {
			return m.dispatch(view.CloseShare{})
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.nextPage):
		return m.dispatch(view.NextPage{})
	case key.Matches(msg, m.keys.prevPage):
		return m.dispatch(view.PrevPage{})
	case key.Matches(msg, m.keys.nextMilestone):
		return m.cycleMilestone(1)
	case key.Matches(msg, m.keys.prevMilestone):
		return m.cycleMilestone(-1)
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.snap.Rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.share):
		if m.cursor < len(m.snap.Rows) {
			return m.dispatch(view.OpenShare{TxID: m.snap.Rows[m.cursor].TxID})
		}
	}
	return m, nil
}

func (m Model) cycleMilestone(step int) (tea.Model, tea.Cmd) {
	opts := m.snap.Options
	if len(opts) == 0 {
		return m, nil
	}
	idx := 0
	for i, o := range opts {
		if o.Selected {
			idx = i
			break
		}
	}
	next := (idx + step + len(opts)) % len(opts)
	return m.dispatch(view.SelectMilestone{ID: opts[next].ID})
}

// dispatch applies msg to the view and turns its effects into commands.
func (m Model) dispatch(msg view.Msg) (tea.Model, tea.Cmd) {
	prev := m.snap
	next, effects := view.Update(m.state, msg)
	m.state = next
	m.sync()
	if m.snap.Pagination.Page != prev.Pagination.Page || m.snap.Selected != prev.Selected || m.snap.TotalRows != prev.TotalRows {
		m.cursor = 0
	}

	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		cmds = append(cmds, m.run(eff))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) sync() {
	m.snap = m.state.Snapshot()
	m.pager.SetTotalPages(m.snap.TotalRows)
	m.pager.Page = m.snap.Pagination.Page - 1
	if m.cursor >= len(m.snap.Rows) {
		m.cursor = max(len(m.snap.Rows)-1, 0)
	}

	m.qrText = ""
	if m.snap.Dialog.Open {
		text, err := m.qr.Text(m.snap.Dialog.Target)
		if err != nil {
			m.logger.Error(m.ctx, "failed to render qr code", logger.String("target", m.snap.Dialog.Target), logger.Error(err))
			return
		}
		m.qrText = text
	}
}

func (m Model) run(eff view.Effect) tea.Cmd {
	ctx, fetcher, log := m.ctx, m.fetcher, m.logger
	switch e := eff.(type) {
	case view.FetchConfig:
		return func() tea.Msg {
			cfg, err := fetcher.FetchConfig(ctx)
			if err != nil {
				log.Error(ctx, "failed to load milestone config", logger.String("op", "fetch_config"), logger.Error(err))
			}
			return view.ConfigLoaded{Config: cfg, Err: err}
		}
	case view.FetchLeaderboard:
		return func() tea.Msg {
			rows, err := fetcher.FetchLeaderboard(ctx, e.Milestone)
			if err != nil {
				log.Error(ctx, "failed to load leaderboard",
					logger.String("op", "fetch_leaderboard"),
					logger.String("milestone", e.Milestone),
					logger.Error(err),
				)
			}
			return view.LeaderboardLoaded{Milestone: e.Milestone, Seq: e.Seq, Rows: rows, Err: err}
		}
	}
	return nil
}

// Snapshot returns what the board currently shows.
func (m Model) Snapshot() view.Snapshot { return m.snap }

// Cursor returns the highlighted row on the current page.
func (m Model) Cursor() int { return m.cursor }
