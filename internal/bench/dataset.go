// Package bench compares classifiers by detection rate and false alarm rate.
package bench

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Dataset is a labeled feature table. The label column is the last CSV column.
type Dataset struct {
	Header   []string
	Features [][]float32
	Labels   []int
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// parseLabel accepts integer labels written either as "7" or "7.0".
func parseLabel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid label %q", s)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("label %q is not an integer", s)
	}
	return int(f), nil
}

// ReadLabels reads one integer label per line. Blank lines and lines
// starting with '#' are skipped.
func ReadLabels(r io.Reader) ([]int, error) {
	labels := []int{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := parseLabel(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		labels = append(labels, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan labels: %w", err)
	}
	return labels, nil
}

// LoadLabels reads a label file.
func LoadLabels(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer func() { _ = f.Close() }()

	labels, err := ReadLabels(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return labels, nil
}

// ReadDataset reads a CSV table with a header row. Every column but the last
// is a numeric feature; the last column is the class label.
func ReadDataset(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("need at least one feature and a label column, got %d columns", len(header))
	}

	d := &Dataset{Header: append([]string(nil), header...)}
	cols := len(header) - 1
	row := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		features := make([]float32, cols)
		for i := 0; i < cols; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 32)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row, header[i], err)
			}
			features[i] = float32(v)
		}
		label, err := parseLabel(rec[cols])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		d.Features = append(d.Features, features)
		d.Labels = append(d.Labels, label)
	}

	return d, nil
}

// LoadDataset reads a CSV dataset file.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	d, err := ReadDataset(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
