package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/templui/stepboard/internal/model"
)

// Column names of the persisted table. The odd casing of
// stepgoalatsubmission is kept so existing leaderboard files keep loading.
const (
	colName      = "Name"
	colSteps     = "Steps"
	colTimestamp = "Timestamp"
	colProof     = "Proof"
	colGoal      = "stepgoalatsubmission"
	colCompleted = "Completed"
)

var csvHeader = []string{colName, colSteps, colTimestamp, colProof, colGoal, colCompleted}

// TimestampLayout is how timestamps are written to the table.
const TimestampLayout = "2006-01-02 15:04:05.000000"

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02",
}

type csvRecordRepository struct {
	path string
	loc  *time.Location

	// Appends from this process are serialized. Other processes writing the
	// same file are not coordinated with.
	mu sync.Mutex
}

func NewCSVRecordRepository(path string, loc *time.Location) RecordRepository {
	if loc == nil {
		loc = time.Local
	}
	return &csvRecordRepository{path: path, loc: loc}
}

func (r *csvRecordRepository) Records(ctx context.Context) ([]*model.StepRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

func (r *csvRecordRepository) Append(ctx context.Context, record *model.StepRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	header, err := r.header()
	if err != nil {
		return err
	}

	switch {
	case header == nil:
		err = r.create(record)
	case currentLayout(header):
		err = r.appendRow(record, len(header))
	default:
		// Legacy column order: migrate the whole table once, then plain appends resume.
		slog.Info("rewriting leaderboard table with current columns", "path", r.path, "columns", header)
		err = r.migrate(header, record)
	}
	if err != nil {
		return fmt.Errorf("%w: append to %s: %v", ErrPersistence, r.path, err)
	}

	return nil
}

// header returns the first row of the table, or nil when the file is missing or empty.
func (r *csvRecordRepository) header() ([]string, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrPersistence, r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header of %s: %v", ErrMalformedStore, r.path, err)
	}
	return trimBOM(header), nil
}

// currentLayout reports whether header starts with the current columns.
// Extra trailing columns are tolerated and written blank.
func currentLayout(header []string) bool {
	return len(header) >= len(csvHeader) && slices.Equal(header[:len(csvHeader)], csvHeader)
}

// migrate rewrites a table with a legacy header into the current column order
// and appends record. Cells are moved verbatim, so rows the loader would skip
// or coerce survive untouched. Unknown columns are kept after the known ones.
func (r *csvRecordRepository) migrate(header []string, record *model.StepRecord) error {
	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedStore, err)
	}

	columns := slices.Clone(csvHeader)
	for _, col := range header {
		col = strings.TrimSpace(col)
		if col != "" && !slices.Contains(columns, col) {
			columns = append(columns, col)
		}
	}

	source := make(map[string]int, len(header))
	for i, col := range header {
		source[strings.TrimSpace(col)] = i
	}

	table := make([][]string, 0, len(rows)+1)
	table = append(table, columns)
	for _, row := range rows[1:] {
		out := make([]string, len(columns))
		for i, col := range columns {
			if j, ok := source[col]; ok && j < len(row) {
				out[i] = row[j]
			}
		}
		table = append(table, out)
	}
	table = append(table, pad(r.row(record), len(columns)))

	return r.writeTable(table)
}

func (r *csvRecordRepository) load() ([]*model.StepRecord, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []*model.StepRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []*model.StepRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStore, err)
	}

	index := make(map[string]int, len(header))
	for i, col := range trimBOM(header) {
		index[strings.TrimSpace(col)] = i
	}
	if _, ok := index[colName]; !ok {
		return nil, fmt.Errorf("%w: missing %s column", ErrMalformedStore, colName)
	}
	if _, ok := index[colSteps]; !ok {
		return nil, fmt.Errorf("%w: missing %s column", ErrMalformedStore, colSteps)
	}

	field := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := []*model.StepRecord{}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedStore, line, err)
		}

		name := field(row, colName)
		if name == "" {
			slog.Warn("skipping leaderboard row without name", "path", r.path, "line", line)
			continue
		}

		steps, ok := parseCount(field(row, colSteps))
		if !ok {
			slog.Warn("unreadable steps value", "path", r.path, "line", line, "value", field(row, colSteps))
		}
		goal, _ := parseCount(field(row, colGoal))
		completed, _ := strconv.ParseBool(field(row, colCompleted))

		proof := field(row, colProof)
		if proof == "" {
			proof = model.NoProof
		}

		records = append(records, &model.StepRecord{
			Name:                 name,
			Steps:                steps,
			Timestamp:            r.parseTimestamp(field(row, colTimestamp)),
			Proof:                proof,
			StepGoalAtSubmission: goal,
			Completed:            completed,
		})
	}

	return records, nil
}

// parseTimestamp coerces anything unreadable to the zero time instead of failing the load.
func (r *csvRecordRepository) parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, value, r.loc)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}

func (r *csvRecordRepository) create(record *model.StepRecord) error {
	err := os.MkdirAll(filepath.Dir(r.path), 0755)
	if err != nil {
		return err
	}
	return r.writeTable([][]string{csvHeader, r.row(record)})
}

func (r *csvRecordRepository) appendRow(record *model.StepRecord, width int) error {
	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	err = ensureTrailingNewline(f, r.path)
	if err != nil {
		_ = f.Close()
		return err
	}

	w := csv.NewWriter(f)
	err = w.Write(pad(r.row(record), width))
	if err == nil {
		w.Flush()
		err = w.Error()
	}
	if err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// writeTable replaces the whole file atomically (temp file + rename).
func (r *csvRecordRepository) writeTable(rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".leaderboard-*.csv")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	err = tmp.Chmod(0644)
	w := csv.NewWriter(tmp)
	if err == nil {
		err = w.WriteAll(rows)
	}
	if err == nil {
		err = tmp.Sync()
	}
	closeErr := tmp.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	return os.Rename(tmpPath, r.path)
}

func (r *csvRecordRepository) row(record *model.StepRecord) []string {
	timestamp := ""
	if record.HasTimestamp() {
		timestamp = record.Timestamp.In(r.loc).Format(TimestampLayout)
	}
	proof := record.Proof
	if proof == "" {
		proof = model.NoProof
	}
	goal := ""
	if record.StepGoalAtSubmission > 0 {
		goal = strconv.Itoa(record.StepGoalAtSubmission)
	}
	return []string{
		record.Name,
		strconv.Itoa(record.Steps),
		timestamp,
		proof,
		goal,
		formatBool(record.Completed),
	}
}

func pad(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

func ensureTrailingNewline(f *os.File, path string) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return err
	}

	rf, err := os.Open(path)
	if err != nil {
		return err
	}
	defer rf.Close()

	last := make([]byte, 1)
	_, err = rf.ReadAt(last, info.Size()-1)
	if err != nil {
		return err
	}
	if last[0] != '\n' {
		_, err = f.Write([]byte("\n"))
	}
	return err
}

// parseCount accepts "4000" as well as "4000.0", which spreadsheet tools write
// for integer columns that contain blanks.
func parseCount(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func trimBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header
}
