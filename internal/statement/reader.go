// Package statement reads raw bank statement exports into field-mapped rows.
package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nsharma/khata/internal/common"
	"github.com/nsharma/khata/internal/normalize"
	"github.com/nsharma/khata/internal/profile"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Canonical column names produced by Read.
const (
	ColDate        = "date"
	ColDescription = "description"
	ColDebit       = "debit"
	ColCredit      = "credit"
	ColBalance     = "balance"
)

// Row maps canonical column names to raw textual cell values. Rows are
// ephemeral; the ingestion pipeline consumes them immediately.
type Row map[string]string

// sweepBalanceLines is how deep into the file the sweep balance label may
// appear before the tabular body begins.
const sweepBalanceLines = 20

// SplitAccountFilename derives the owner and bank identifiers from the
// Owner_Bank.csv file naming convention. A stem without an underscore gets
// bank "Unknown", which resolves to the generic format profile.
func SplitAccountFilename(path string) (owner, bank string) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.SplitN(stem, "_", 2)
	if len(parts) == 2 && parts[1] != "" {
		return parts[0], parts[1]
	}
	return parts[0], "Unknown"
}

// decode converts raw file bytes to text by trying a fixed list of
// encodings in order. UTF-8 wins when the bytes are valid UTF-8; the
// single-byte fallbacks accept anything, so only an empty file is
// unreadable.
func decode(data []byte) (string, error) {
	if len(data) == 0 {
		return "", common.ErrUnreadableFile
	}
	if utf8.Valid(data) {
		return string(data), nil
	}

	fallbacks := []encoding.Encoding{charmap.ISO8859_1, charmap.Windows1252}
	for _, enc := range fallbacks {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err == nil {
			return string(decoded), nil
		}
	}

	return "", common.ErrUnreadableFile
}

// Read decodes a statement export and returns its tabular body as rows
// keyed by canonical column names. It skips the profile's header lines,
// lower-cases and trims the column header row, renames the first column
// matching each synonym list, and zero-fills absent debit/credit columns so
// downstream arithmetic is always defined.
func Read(data []byte, p profile.Profile) ([]Row, error) {
	content, err := decode(data)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(content, "\n")
	if p.HeaderSkip >= len(lines) {
		return nil, common.ErrEmptyStatement
	}
	body := strings.Join(lines[p.HeaderSkip:], "\n")

	reader := csv.NewReader(strings.NewReader(body))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, common.ErrEmptyStatement
	}
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	columns := mapColumns(headers, p)

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row, not file failure.
			continue
		}

		row := Row{ColDebit: "0", ColCredit: "0"}
		for canonical, idx := range columns {
			if idx < len(record) {
				row[canonical] = record[idx]
			}
		}
		if isBlank(row) {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// mapColumns finds, for each canonical column, the index of the first
// header matching its synonym list. Columns without a match stay absent.
func mapColumns(headers []string, p profile.Profile) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}

	columns := make(map[string]int)
	synonyms := map[string][]string{
		ColDate:        p.DateColumns,
		ColDescription: p.DescriptionColumns,
		ColDebit:       p.DebitColumns,
		ColCredit:      p.CreditColumns,
		ColBalance:     p.BalanceColumns,
	}
	for canonical, names := range synonyms {
		for _, name := range names {
			if i, ok := index[name]; ok {
				columns[canonical] = i
				break
			}
		}
	}
	return columns
}

func isBlank(row Row) bool {
	for key, v := range row {
		if key == ColDebit || key == ColCredit {
			if v != "0" && strings.TrimSpace(v) != "" {
				return false
			}
			continue
		}
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sweepAmountPattern matches the quoted, thousands-separated value that
// follows the balance label. The quotes distinguish the amount from dates
// on the same line.
var sweepAmountPattern = regexp.MustCompile(`"([0-9][0-9,]*(?:\.[0-9]+)?)"`)

// ExtractSweepBalance pattern-matches the profile's sweep balance label
// within the first lines of the raw file and parses the attached amount.
// It reports false when the profile has no label or the label is absent.
func ExtractSweepBalance(data []byte, p profile.Profile) (decimal.Decimal, bool) {
	if p.SweepBalanceLabel == "" {
		return decimal.Zero, false
	}
	content, err := decode(data)
	if err != nil {
		return decimal.Zero, false
	}

	label := strings.ToLower(p.SweepBalanceLabel)
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if i >= sweepBalanceLines {
			break
		}
		pos := strings.Index(strings.ToLower(line), label)
		if pos < 0 {
			continue
		}
		rest := line[pos+len(label):]
		match := sweepAmountPattern.FindStringSubmatch(rest)
		if match == nil {
			continue
		}
		return normalize.ParseAmount(match[1]), true
	}

	return decimal.Zero, false
}

// ReadFile is a convenience wrapper joining filename conventions, profile
// resolution and the tabular read for one export file.
func ReadFile(data []byte, path string) (owner, bank string, p profile.Profile, rows []Row, err error) {
	owner, bank = SplitAccountFilename(path)
	p = profile.Resolve(bank)
	rows, err = Read(data, p)
	if err != nil {
		return owner, bank, p, nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return owner, bank, p, rows, nil
}
