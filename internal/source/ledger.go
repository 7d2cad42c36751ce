package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/halos/internal/model"
)

var (
	commentPrefix = []byte("#")
	dateLayouts   = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04"}
)

// ParseLedger reads a JSONL ledger. Blank lines and lines starting with #
// are skipped; malformed lines are counted and skipped.
func ParseLedger(path string) ([]model.Transaction, LedgerResult) {
	res := LedgerResult{Path: path}
	f, err := os.Open(path)
	if err != nil {
		res.Err = err
		return nil, res
	}
	defer func() { _ = f.Close() }()

	var txns []model.Transaction
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || bytes.HasPrefix(line, commentPrefix) {
			continue
		}
		tx, err := parseEntry(line)
		if err != nil {
			res.ParseErrors++
			continue
		}
		txns = append(txns, tx)
		res.Entries++
	}
	if err := scanner.Err(); err != nil {
		res.Err = fmt.Errorf("reading %s: %w", path, err)
	}
	return txns, res
}

func parseEntry(line []byte) (model.Transaction, error) {
	var e ledgerEntry
	if err := json.Unmarshal(line, &e); err != nil {
		return model.Transaction{}, err
	}
	date, err := parseDate(e.Date)
	if err != nil {
		return model.Transaction{}, err
	}
	kind := model.TxKind(strings.ToLower(e.Kind))
	switch kind {
	case "":
		kind = model.TxExpense
	case model.TxExpense, model.TxIncome:
	default:
		return model.Transaction{}, fmt.Errorf("unknown kind %q", e.Kind)
	}
	if e.Amount.IsNegative() {
		return model.Transaction{}, fmt.Errorf("negative amount %s", e.Amount)
	}
	return model.Transaction{
		Date:     date,
		Kind:     kind,
		Category: e.Category,
		Amount:   e.Amount,
		Note:     e.Note,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// AppendTransaction adds one entry to the end of a ledger, creating it.
func AppendTransaction(path string, tx model.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer func() { _ = f.Close() }()

	line, err := json.Marshal(ledgerEntry{
		Date:     tx.Date.Format("2006-01-02"),
		Kind:     string(tx.Kind),
		Category: tx.Category,
		Amount:   tx.Amount,
		Note:     tx.Note,
	})
	if err != nil {
		return err
	}
	_, err = f.Write(append(line, '\n'))
	return err
}

// LedgerFile maps a ledger directory to the monthly file date belongs in.
// A path that already names a .jsonl file is returned unchanged.
func LedgerFile(path string, date time.Time) string {
	if strings.HasSuffix(path, ".jsonl") {
		return path
	}
	return filepath.Join(path, date.Format("2006-01")+".jsonl")
}

// ScanLedgers returns the .jsonl ledgers in dir, sorted by name. A missing
// directory yields no ledgers.
func ScanLedgers(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jsonl" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadLedgers parses a ledger file, or every ledger in a directory, and
// returns all transactions ordered by date.
func LoadLedgers(path string) ([]model.Transaction, []LedgerResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	paths := []string{path}
	if info.IsDir() {
		if paths, err = ScanLedgers(path); err != nil {
			return nil, nil, fmt.Errorf("scanning %s: %w", path, err)
		}
	}

	var all []model.Transaction
	var results []LedgerResult
	for _, p := range paths {
		txns, res := ParseLedger(p)
		results = append(results, res)
		all = append(all, txns...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	return all, results, nil
}
