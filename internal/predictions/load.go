package predictions

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vedantwpatil/ball-overlay/internal/monitoring"

	_ "modernc.org/sqlite"
)

// legacyActiveColumn is the activity column name written by the smoothing
// step that produces most prediction tables.
const legacyActiveColumn = "value"

const defaultTable = "predictions"

// Load reads the prediction table at path. SQLite files (.db, .sqlite,
// .sqlite3) are read from table, "predictions" when empty; anything else is
// parsed as CSV with a header row.
func Load(path, table string, cols Columns) (*Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		if table == "" {
			table = defaultTable
		}
		return LoadSQLite(path, table, cols)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &DataFormatError{Source: path, Reason: "cannot open", Err: err}
	}
	defer f.Close()

	return ReadCSV(f, path, cols)
}

func ReadCSV(r io.Reader, name string, cols Columns) (*Store, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DataFormatError{Source: name, Reason: "empty file"}
	}
	if err != nil {
		return nil, &DataFormatError{Source: name, Reason: "cannot read header", Err: err}
	}

	idx, err := columnIndexes(header, cols)
	if err != nil {
		return nil, &DataFormatError{Source: name, Line: 1, Reason: err.Error()}
	}

	parser := rowParser{source: name}
	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DataFormatError{Source: name, Reason: "cannot read row", Err: err}
		}
		line, _ := reader.FieldPos(0)
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		rec, err := parser.parse(line, cell(row, idx.frame), cell(row, idx.active), cell(row, idx.x), cell(row, idx.y))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return build(name, records), nil
}

// LoadSQLite reads records from table in the SQLite database at path.
func LoadSQLite(path, table string, cols Columns) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &DataFormatError{Source: path, Reason: "cannot open", Err: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &DataFormatError{Source: path, Reason: "cannot open", Err: err}
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT %s, %s, %s, %s FROM %s",
		quoteIdent(cols.Frame), quoteIdent(cols.Active), quoteIdent(cols.X), quoteIdent(cols.Y), quoteIdent(table))
	// Views and WITHOUT ROWID tables have no rowid; they are read in scan order.
	rows, err := db.Query(query + " ORDER BY rowid")
	if err != nil {
		rows, err = db.Query(query)
	}
	if err != nil {
		return nil, &DataFormatError{Source: path, Reason: "missing table or column", Err: err}
	}
	defer rows.Close()

	parser := rowParser{source: path}
	var records []Record
	line := 0
	for rows.Next() {
		line++
		var frame, active, x, y sql.NullString
		if err := rows.Scan(&frame, &active, &x, &y); err != nil {
			return nil, &DataFormatError{Source: path, Line: line, Reason: "cannot scan row", Err: err}
		}
		rec, err := parser.parse(line, frame.String, active.String, x.String, y.String)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &DataFormatError{Source: path, Reason: "cannot read rows", Err: err}
	}

	return build(path, records), nil
}

func build(source string, records []Record) *Store {
	store := NewStore(records)
	if store.Duplicates() > 0 {
		monitoring.Logf("Warning: %s has %d duplicate frame rows, keeping the first of each", source, store.Duplicates())
	}
	return store
}

type indexes struct {
	frame, active, x, y int
}

func columnIndexes(header []string, cols Columns) (indexes, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, ok := pos[h]; !ok {
			pos[h] = i
		}
	}

	var idx indexes
	var missing []string
	find := func(name string, dst *int, aliases ...string) {
		for _, n := range append([]string{name}, aliases...) {
			if i, ok := pos[n]; ok {
				*dst = i
				return
			}
		}
		missing = append(missing, name)
	}
	find(cols.Frame, &idx.frame)
	find(cols.Active, &idx.active, legacyActiveColumn)
	find(cols.X, &idx.x)
	find(cols.Y, &idx.y)

	if len(missing) > 0 {
		return indexes{}, fmt.Errorf("missing required columns %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// cell tolerates short rows; a missing trailing cell reads as empty.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
