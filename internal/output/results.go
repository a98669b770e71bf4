package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/torosent/loadbench/internal/matrix"
)

// ResultsHeader is the header row of a matrix results file.
var ResultsHeader = []string{
	"Endpoint",
	"Request Type",
	"Payload Size",
	"Concurrency",
	"Duration",
	"Creations",
	"Failures",
}

// ErrNoResults is returned when a results directory has no CSV files.
var ErrNoResults = errors.New("no CSV result files found")

const resultsLockName = ".results.lock"

// ResultsFileName returns the timestamped name a results file is saved under.
func ResultsFileName(now time.Time) string {
	return "results_" + now.Format("20060102_150405") + ".csv"
}

// WriteResultsCSV writes rows with ResultsHeader. Duration is in seconds.
func WriteResultsCSV(w io.Writer, rows []matrix.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultsHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Endpoint,
			r.RequestType,
			strconv.Itoa(r.PayloadSize),
			strconv.Itoa(r.Concurrency),
			strconv.FormatFloat(r.Duration.Seconds(), 'f', -1, 64),
			strconv.FormatInt(r.Creations, 10),
			strconv.FormatInt(r.Failures, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveResults writes rows to dir/results_YYYYMMDD_HHMMSS.csv and returns the
// path. The directory is created if needed. Concurrent writers to the same
// directory are serialized with an advisory lock, and a name collision within
// the same second gets a numeric suffix.
func SaveResults(dir string, rows []matrix.Row, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	lock := flock.New(filepath.Join(dir, resultsLockName))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock results dir: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	base := strings.TrimSuffix(ResultsFileName(now), ".csv")
	path := filepath.Join(dir, base+".csv")
	var f *os.File
	for n := 1; ; n++ {
		var err error
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("create results file: %w", err)
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.csv", base, n))
	}

	if err := WriteResultsCSV(f, rows); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write results: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close results file: %w", err)
	}
	return path, nil
}

// ReadResultsCSV parses a results file written by WriteResultsCSV. Columns
// are matched by header name so extra columns are ignored.
func ReadResultsCSV(r io.Reader) ([]matrix.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("results file is empty")
		}
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range ResultsHeader {
		if _, ok := index[strings.ToLower(name)]; !ok {
			return nil, fmt.Errorf("results file missing column %q", name)
		}
	}
	col := func(record []string, name string) string {
		i := index[strings.ToLower(name)]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []matrix.Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var row matrix.Row
		row.Endpoint = col(record, "Endpoint")
		row.RequestType = col(record, "Request Type")
		if row.PayloadSize, err = strconv.Atoi(col(record, "Payload Size")); err != nil {
			return nil, fmt.Errorf("line %d: payload size: %w", line, err)
		}
		if row.Concurrency, err = strconv.Atoi(col(record, "Concurrency")); err != nil {
			return nil, fmt.Errorf("line %d: concurrency: %w", line, err)
		}
		secs, err := strconv.ParseFloat(col(record, "Duration"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: duration: %w", line, err)
		}
		row.Duration = time.Duration(math.Round(secs * float64(time.Second)))
		if row.Creations, err = strconv.ParseInt(col(record, "Creations"), 10, 64); err != nil {
			return nil, fmt.Errorf("line %d: creations: %w", line, err)
		}
		if row.Failures, err = strconv.ParseInt(col(record, "Failures"), 10, 64); err != nil {
			return nil, fmt.Errorf("line %d: failures: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadResultsFile reads a results CSV from disk.
func LoadResultsFile(path string) ([]matrix.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := ReadResultsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ListResultFiles returns the names of CSV files in dir, oldest first by
// name. Timestamped names sort chronologically.
func ListResultFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoResults, dir)
	}
	sort.Strings(names)
	return names, nil
}

// LatestResultFile returns the path of the newest results file in dir.
func LatestResultFile(dir string) (string, error) {
	names, err := ListResultFiles(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, names[len(names)-1]), nil
}
