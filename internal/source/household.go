// Package source reads the inputs a plan is computed from: household
// files in TOML or JSON and JSONL transaction ledgers.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
)

// ErrUnknownFormat is returned for household files that are neither TOML nor JSON.
var ErrUnknownFormat = errors.New("unknown household format")

// Format is a household file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// LoadHousehold reads and validates a household file.
func LoadHousehold(path string) (model.Household, error) {
	format, err := FormatOf(path)
	if err != nil {
		return model.Household{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return model.Household{}, fmt.Errorf("reading household: %w", err)
	}
	defer func() { _ = f.Close() }()

	h, err := DecodeHousehold(f, format)
	if err != nil {
		return model.Household{}, err
	}
	if h.Name == "" {
		h.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return h, nil
}

// DecodeHousehold parses and validates a household from r.
func DecodeHousehold(r io.Reader, format Format) (model.Household, error) {
	var h model.Household
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&h); err != nil {
			return model.Household{}, fmt.Errorf("parsing household: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&h); err != nil {
			return model.Household{}, fmt.Errorf("parsing household: %w", err)
		}
	default:
		return model.Household{}, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err := h.Validate(); err != nil {
		return model.Household{}, err
	}
	return h, nil
}

// SaveHousehold writes h in the format implied by the path extension.
func SaveHousehold(path string, h model.Household) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating household dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing household: %w", err)
	}
	defer func() { _ = f.Close() }()

	if format == FormatJSON {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	}
	return toml.NewEncoder(f).Encode(h)
}

// Demo returns a sample household for trying the planner out.
func Demo() model.Household {
	return model.Household{
		Name:     "Demo household",
		Currency: "UZS",
		Income:   model.Income{Self: money.FromInt(8_500_000), Partner: money.FromInt(4_000_000)},
		Expenses: []model.MandatoryExpense{
			{Name: "Rent", Amount: money.FromInt(3_500_000), Icon: "home"},
			{Name: "Utilities", Amount: money.FromInt(600_000), Icon: "bolt"},
			{Name: "Kindergarten", Amount: money.FromInt(1_200_000), Icon: "child"},
			{Name: "Internet & phone", Amount: money.FromInt(250_000), Icon: "wifi"},
		},
		Loans: []model.Loan{
			{
				Name:              "Car loan",
				Principal:         money.FromInt(60_000_000),
				MonthlyPayment:    money.FromInt(2_300_000),
				AnnualRatePercent: money.FromInt(24),
				TermMonths:        36,
				StartDate:         "2025-03",
			},
			{
				Name:              "Microloan",
				Principal:         money.FromInt(10_000_000),
				MonthlyPayment:    money.FromInt(400_000),
				AnnualRatePercent: money.FromInt(28),
				TermMonths:        36,
				StartDate:         "2025-09",
			},
			{
				Name:              "Installment",
				Principal:         money.FromInt(6_000_000),
				MonthlyPayment:    money.FromInt(560_000),
				AnnualRatePercent: money.FromInt(21),
				TermMonths:        12,
				StartDate:         "2026-01",
			},
		},
	}
}
