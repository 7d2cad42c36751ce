// Package tui provides the interactive Bubble Tea dashboard for halos.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/halos/internal/config"
	"github.com/theirongolddev/halos/internal/engine"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/pipeline"
	"github.com/theirongolddev/halos/internal/source"
	"github.com/theirongolddev/halos/internal/tui/components"
	"github.com/theirongolddev/halos/internal/tui/theme"
)

// Options tells the dashboard where its inputs live.
type Options struct {
	Config        config.Config
	HouseholdPath string
	LedgerPath    string
	Demo          bool
	Strategy      string
	Nominal       string
	Start         time.Time
}

// Snapshot is everything the tabs render, computed off the UI goroutine.
type Snapshot struct {
	Household  model.Household
	Plan       model.FreedomPlan
	Impacts    []model.ImpactReport
	Budget     model.BudgetStatus
	Strategies []pipeline.ScenarioResult
	Ledger     []source.LedgerResult
	ModTime    time.Time
}

// DataLoadedMsg is sent when a snapshot has been computed.
type DataLoadedMsg struct {
	Snapshot *Snapshot
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports strategy evaluation progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	snap     *Snapshot
	loadErr  error
	loaded   bool
	loadTime time.Duration

	// Reload state
	reloading  bool
	lastReload time.Time

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	loans  loansState
	budget budgetState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	reloadCheckEvery = time.Second
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	needSetup := false
	if !opts.Demo {
		if _, err := os.Stat(opts.HouseholdPath); isMissing(err) {
			needSetup = true
		}
	}

	return App{
		opts:      opts,
		needSetup: needSetup,
		spinner:   sp,
		loadSub:   make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.needSetup {
		return tea.Batch(tea.EnableMouseCellMotion, func() tea.Msg { return startSetupMsg{} })
	}
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	)
}

type startSetupMsg struct{}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case startSetupMsg:
		vals := LoadSetupValues(a.opts.Config)
		a.setupVals = &vals
		a.setupForm = NewSetupForm(a.setupVals)
		if a.width > 0 {
			a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
		}
		return a, a.setupForm.Init()

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabLoans {
				a.loans.up()
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabLoans {
				a.loans.down(a.loanCount())
			}
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if !a.loaded {
			return a, nil
		}

		if a.activeTab == tabBudget && a.budget.adding {
			return a.updateBudgetInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch a.activeTab {
		case tabLoans:
			switch key {
			case "j", "down":
				a.loans.down(a.loanCount())
				return a, nil
			case "k", "up":
				a.loans.up()
				return a, nil
			}
		case tabBudget:
			if key == "a" {
				return a.startBudgetInput()
			}
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			return a.reload()
		case "t":
			a.opts.Strategy = nextOf(engine.StrategyNames(), a.opts.Strategy)
			return a.reload()
		case "n":
			if a.opts.Nominal == string(engine.RunToTerm) {
				a.opts.Nominal = string(engine.RunToZero)
			} else {
				a.opts.Nominal = string(engine.RunToTerm)
			}
			return a.reload()
		case "left", "h":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if r := []rune(key); len(r) == 1 {
				if idx := components.TabIdxByKey(r[0]); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.reloading = false
		a.lastReload = time.Now()
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		if msg.Snapshot != nil {
			a.snap = msg.Snapshot
			a.loans.clamp(len(a.snap.Household.Loans))
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded || a.reloading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && !a.reloading && a.householdChanged() {
			a.reloading = true
			cmds = append(cmds, reloadCmd(a.opts), a.spinner.Tick)
		}
		return a, tea.Batch(cmds...)
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == tabBudget && a.budget.adding {
		var cmd tea.Cmd
		a.budget.input, cmd = a.budget.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) reload() (tea.Model, tea.Cmd) {
	if a.reloading {
		return a, nil
	}
	a.reloading = true
	return a, tea.Batch(reloadCmd(a.opts), a.spinner.Tick)
}

func (a App) householdChanged() bool {
	if a.opts.Demo || a.snap == nil {
		return false
	}
	info, err := os.Stat(a.opts.HouseholdPath)
	if err != nil {
		return false
	}
	return info.ModTime().After(a.snap.ModTime)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg, _, err := ApplySetup(a.opts.Config, *a.setupVals)
		a.setupForm = nil
		a.needSetup = false
		if err != nil {
			a.loaded = true
			a.loadErr = err
			return a, nil
		}
		a.opts.Config = cfg
		a.opts.HouseholdPath = config.HouseholdPath(cfg)
		a.opts.Strategy = cfg.Plan.Strategy
		a.opts.Nominal = cfg.Plan.Nominal
		return a, tea.Batch(loadDataCmd(a.opts, a.loadSub), a.spinner.Tick, tickCmd())
	case huh.StateAborted:
		return a, tea.Quit
	}
	return a, cmd
}

func (a App) loanCount() int {
	if a.snap == nil {
		return 0
	}
	return len(a.snap.Household.Loans)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  halos needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ halos"))
	b.WriteString(subtitleStyle.Render(" · freedom plan"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	if a.progressMax > 0 {
		b.WriteString(subtitleStyle.Render(" Comparing strategies\n\n"))
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), 30))
	} else {
		b.WriteString(subtitleStyle.Render(" Loading household..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"p l i b s", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Select loan"},
		}},
		{"Plan", [][2]string{
			{"t", "Cycle accelerator strategy"},
			{"n", "Toggle nominal convention"},
			{"a", "Add expense (Budget tab)"},
			{"r", "Reload household and ledger"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, kv := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", kv[0])), descStyle.Render(kv[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

const (
	tabPlan = iota
	tabLoans
	tabImpact
	tabBudget
	tabStrategies
)

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	summary := ""
	if a.snap != nil {
		summary = fmt.Sprintf("%s · %s · %s", a.snap.Household.Name, a.snap.Plan.Strategy, a.snap.Plan.Nominal)
	}
	statusBar := components.RenderStatusBar(w, summary, fmt.Sprintf("%dms", a.loadTime.Milliseconds()), a.reloading)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.snap == nil:
		content = a.renderError(cw)
	default:
		switch a.activeTab {
		case tabPlan:
			content = a.renderPlanTab(cw)
		case tabLoans:
			content = a.renderLoansTab(cw, contentH)
		case tabImpact:
			content = a.renderImpactTab(cw)
		case tabBudget:
			content = a.renderBudgetTab(cw)
		case tabStrategies:
			content = a.renderStrategiesTab(cw)
		}
		if a.loadErr != nil {
			content = a.renderError(cw) + "\n" + content
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderError(cw int) string {
	t := theme.Active
	msg := "no data"
	if a.loadErr != nil {
		msg = a.loadErr.Error()
	}
	style := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	return components.ContentCard("Could not load household", style.Render(msg), cw)
}

// ─── Loading ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(reloadCheckEvery, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// buildSnapshot loads the inputs and computes every view of them.
func buildSnapshot(ctx context.Context, opts Options, progressFn pipeline.ProgressFunc) (*Snapshot, error) {
	snap := &Snapshot{}
	if opts.Demo {
		snap.Household = source.Demo()
	} else {
		info, err := os.Stat(opts.HouseholdPath)
		if err != nil {
			return nil, fmt.Errorf("reading household: %w", err)
		}
		snap.ModTime = info.ModTime()
		if snap.Household, err = source.LoadHousehold(opts.HouseholdPath); err != nil {
			return nil, err
		}
	}
	h := snap.Household
	if h.Currency == "" {
		h.Currency = opts.Config.General.Currency
		snap.Household.Currency = h.Currency
	}

	planOpts, err := pipeline.NewOptions(opts.Strategy, opts.Nominal, opts.Start)
	if err != nil {
		return nil, err
	}
	snap.Plan = pipeline.BuildFreedomPlan(h, planOpts)
	snap.Impacts = pipeline.ImpactReports(h)

	txns, results, err := source.LoadLedgers(opts.LedgerPath)
	if err != nil {
		return nil, err
	}
	snap.Ledger = results
	snap.Budget = pipeline.TrackBudget(pipeline.LivingBudget(h), txns, time.Now())

	snap.Strategies, err = pipeline.EvaluateScenarios(ctx, pipeline.StrategyScenarios(h, planOpts), 0, progressFn)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// loadDataCmd computes the first snapshot in a background goroutine,
// streaming ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(opts Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}
			snap, err := buildSnapshot(context.Background(), opts, progressFn)
			sub <- DataLoadedMsg{Snapshot: snap, Err: err, LoadTime: time.Since(start)}
		}()
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// reloadCmd recomputes the snapshot without progress UI.
func reloadCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		snap, err := buildSnapshot(context.Background(), opts, nil)
		return DataLoadedMsg{Snapshot: snap, Err: err, LoadTime: time.Since(start)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func nextOf(options []string, current string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	if len(options) > 1 {
		// empty means the first option is in effect
		return options[1]
	}
	return options[0]
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths RenderTabBar uses.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}
