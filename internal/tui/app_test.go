package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/halos/internal/config"
	"github.com/theirongolddev/halos/internal/engine"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
	"github.com/theirongolddev/halos/internal/pipeline"
	"github.com/theirongolddev/halos/internal/source"
)

func demoOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		Config:     config.DefaultConfig(),
		Demo:       true,
		LedgerPath: filepath.Join(t.TempDir(), "ledger"),
		Start:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func loadedApp(t *testing.T, opts Options) App {
	t.Helper()
	snap, err := buildSnapshot(t.Context(), opts, nil)
	if err != nil {
		t.Fatalf("buildSnapshot: %v", err)
	}
	a := NewApp(opts)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	m, _ = m.Update(DataLoadedMsg{Snapshot: snap})
	return m.(App)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBuildSnapshotDemo(t *testing.T) {
	snap, err := buildSnapshot(t.Context(), demoOptions(t), nil)
	if err != nil {
		t.Fatalf("buildSnapshot: %v", err)
	}
	if got := len(snap.Plan.Loans); got != len(source.Demo().Loans) {
		t.Fatalf("plan loans = %d, want %d", got, len(source.Demo().Loans))
	}
	if got := len(snap.Impacts); got != len(snap.Household.Loans) {
		t.Fatalf("impacts = %d, want %d", got, len(snap.Household.Loans))
	}
	if got := len(snap.Strategies); got != len(engine.StrategyNames()) {
		t.Fatalf("strategies = %d, want %d", got, len(engine.StrategyNames()))
	}
	if snap.Plan.Strategy != engine.StrategyEqual {
		t.Fatalf("strategy = %q, want %q", snap.Plan.Strategy, engine.StrategyEqual)
	}
}

func TestBuildSnapshotMissingHousehold(t *testing.T) {
	opts := demoOptions(t)
	opts.Demo = false
	opts.HouseholdPath = filepath.Join(t.TempDir(), "missing.toml")
	if _, err := buildSnapshot(t.Context(), opts, nil); err == nil {
		t.Fatal("buildSnapshot with missing household: want error")
	}
}

func TestNewAppNeedsSetupWithoutHousehold(t *testing.T) {
	opts := demoOptions(t)
	opts.Demo = false
	opts.HouseholdPath = filepath.Join(t.TempDir(), "household.toml")
	if a := NewApp(opts); !a.needSetup {
		t.Fatal("needSetup = false, want true for a missing household")
	}
	if a := NewApp(demoOptions(t)); a.needSetup {
		t.Fatal("needSetup = true in demo mode, want false")
	}
}

func TestTabKeys(t *testing.T) {
	a := loadedApp(t, demoOptions(t))

	for _, tc := range []struct {
		key  string
		want int
	}{
		{"l", tabLoans},
		{"i", tabImpact},
		{"b", tabBudget},
		{"s", tabStrategies},
		{"p", tabPlan},
	} {
		m, _ := a.Update(key(tc.key))
		a = m.(App)
		if a.activeTab != tc.want {
			t.Fatalf("after %q activeTab = %d, want %d", tc.key, a.activeTab, tc.want)
		}
	}

	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyLeft})
	a = m.(App)
	if a.activeTab != tabStrategies {
		t.Fatalf("left from plan = %d, want %d", a.activeTab, tabStrategies)
	}
}

func TestLoanCursorStaysInRange(t *testing.T) {
	a := loadedApp(t, demoOptions(t))
	m, _ := a.Update(key("l"))
	a = m.(App)

	n := len(a.snap.Household.Loans)
	for i := 0; i < n+3; i++ {
		m, _ = a.Update(key("j"))
		a = m.(App)
	}
	if a.loans.cursor != n-1 {
		t.Fatalf("cursor = %d, want %d", a.loans.cursor, n-1)
	}
	for i := 0; i < n+3; i++ {
		m, _ = a.Update(key("k"))
		a = m.(App)
	}
	if a.loans.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", a.loans.cursor)
	}
}

func TestStrategyKeyCyclesAndReloads(t *testing.T) {
	a := loadedApp(t, demoOptions(t))
	m, cmd := a.Update(key("t"))
	a = m.(App)
	if a.opts.Strategy != engine.StrategyAvalanche {
		t.Fatalf("strategy = %q, want %q", a.opts.Strategy, engine.StrategyAvalanche)
	}
	if !a.reloading || cmd == nil {
		t.Fatal("cycling the strategy should start a reload")
	}
}

func TestNominalKeyToggles(t *testing.T) {
	a := loadedApp(t, demoOptions(t))
	m, _ := a.Update(key("n"))
	a = m.(App)
	if a.opts.Nominal != string(engine.RunToTerm) {
		t.Fatalf("nominal = %q, want %q", a.opts.Nominal, engine.RunToTerm)
	}
	a.reloading = false
	m, _ = a.Update(key("n"))
	if got := m.(App).opts.Nominal; got != string(engine.RunToZero) {
		t.Fatalf("nominal = %q, want %q", got, engine.RunToZero)
	}
}

func TestNextOf(t *testing.T) {
	names := engine.StrategyNames()
	if got := nextOf(names, ""); got != names[1] {
		t.Fatalf("nextOf(\"\") = %q, want %q", got, names[1])
	}
	if got := nextOf(names, names[len(names)-1]); got != names[0] {
		t.Fatalf("nextOf(last) = %q, want %q", got, names[0])
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := loadedApp(t, demoOptions(t))
	for i := range 5 {
		a.activeTab = i
		out := a.View()
		if got := len(strings.Split(out, "\n")); got != a.height {
			t.Fatalf("tab %d rendered %d lines, want %d", i, got, a.height)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := loadedApp(t, demoOptions(t))
	a.width = 60
	if out := a.View(); !strings.Contains(out, "too narrow") {
		t.Fatalf("narrow view = %q, want a too-narrow notice", out)
	}
}

func TestParseExpense(t *testing.T) {
	tx, err := parseExpense("45000 groceries and snacks")
	if err != nil {
		t.Fatalf("parseExpense: %v", err)
	}
	if tx.Category != "groceries and snacks" || tx.Amount.IntPart() != 45000 || tx.Kind != model.TxExpense {
		t.Fatalf("parseExpense = %+v", tx)
	}

	tx, err = parseExpense("1200")
	if err != nil {
		t.Fatalf("parseExpense: %v", err)
	}
	if tx.Category != defaultExpenseCategory {
		t.Fatalf("category = %q, want %q", tx.Category, defaultExpenseCategory)
	}

	for _, bad := range []string{"", "abc food", "-5 food", "0"} {
		if _, err := parseExpense(bad); err == nil {
			t.Fatalf("parseExpense(%q): want error", bad)
		}
	}
}

func TestBudgetQuickAddWritesLedger(t *testing.T) {
	opts := demoOptions(t)
	a := loadedApp(t, opts)
	m, _ := a.Update(key("b"))
	m, _ = m.Update(key("a"))
	a = m.(App)
	if !a.budget.adding {
		t.Fatal("adding = false after pressing a on the budget tab")
	}

	m, _ = a.Update(key("25000 coffee"))
	m, cmd := m.Update(key("enter"))
	a = m.(App)
	if a.budget.adding {
		t.Fatalf("still adding after enter, err = %v", a.budget.saveErr)
	}
	if cmd == nil {
		t.Fatal("saving an expense should trigger a reload")
	}

	txns, _, err := source.LoadLedgers(opts.LedgerPath)
	if err != nil {
		t.Fatalf("LoadLedgers: %v", err)
	}
	if len(txns) != 1 || txns[0].Category != "coffee" || txns[0].Amount.IntPart() != 25000 {
		t.Fatalf("ledger = %+v, want one coffee expense", txns)
	}
}

func TestBudgetQuickAddEscCancels(t *testing.T) {
	a := loadedApp(t, demoOptions(t))
	m, _ := a.Update(key("b"))
	m, _ = m.Update(key("a"))
	m, _ = m.Update(key("q"))
	a = m.(App)
	if !a.budget.adding {
		t.Fatal("q while typing should not leave the input")
	}
	m, _ = a.Update(key("esc"))
	if m.(App).budget.adding {
		t.Fatal("esc should close the input")
	}
}

func TestBestStrategy(t *testing.T) {
	plan := func(exit int, saved int64) model.FreedomPlan {
		p := model.FreedomPlan{ExitMonths: exit}
		p.Totals.InterestSaved = p.Totals.InterestSaved.Add(money.FromInt(saved))
		return p
	}
	results := []pipeline.ScenarioResult{
		{Plan: plan(30, 100)},
		{Plan: plan(28, 50)},
		{Plan: plan(28, 80)},
	}
	if got := bestStrategy(results); got != 2 {
		t.Fatalf("bestStrategy = %d, want 2", got)
	}
	if got := bestStrategy(nil); got != -1 {
		t.Fatalf("bestStrategy(nil) = %d, want -1", got)
	}
}

func TestHouseholdChangedDetectsNewerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "household.toml")
	if err := source.SaveHousehold(path, source.Demo()); err != nil {
		t.Fatalf("SaveHousehold: %v", err)
	}
	opts := demoOptions(t)
	opts.Demo = false
	opts.HouseholdPath = path

	a := loadedApp(t, opts)
	if a.householdChanged() {
		t.Fatal("householdChanged = true right after loading")
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	if !a.householdChanged() {
		t.Fatal("householdChanged = false after the file was touched")
	}
}
