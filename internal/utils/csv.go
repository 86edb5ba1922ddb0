package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

var csvHeader = []string{"open_time", "close_time", "symbol", "interval", "open", "high", "low", "close", "volume"}

// WriteKlinesToCSV writes klines to filename, creating parent directories.
func WriteKlinesToCSV(klines []*domain.Kline, filename string) error {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteKlines(file, klines)
}

// WriteKlines writes a header row and one row per kline.
func WriteKlines(w io.Writer, klines []*domain.Kline) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, k := range klines {
		if err := writer.Write([]string{
			k.OpenTime.UTC().Format(time.RFC3339),
			k.CloseTime.UTC().Format(time.RFC3339),
			k.Symbol,
			k.Interval,
			strconv.FormatFloat(k.Open, 'f', -1, 64),
			strconv.FormatFloat(k.High, 'f', -1, 64),
			strconv.FormatFloat(k.Low, 'f', -1, 64),
			strconv.FormatFloat(k.Close, 'f', -1, 64),
			strconv.FormatFloat(k.Volume, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadKlinesFromCSV loads klines previously written by WriteKlinesToCSV.
func ReadKlinesFromCSV(filename string) ([]*domain.Kline, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadKlines(file)
}

// ReadKlines parses CSV rows in the WriteKlines layout.
func ReadKlines(r io.Reader) ([]*domain.Kline, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	klines := make([]*domain.Kline, 0, len(rows)-1)
	for i, row := range rows[1:] {
		k, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		klines = append(klines, k)
	}
	return klines, nil
}

func parseRow(row []string) (*domain.Kline, error) {
	openTime, err := time.Parse(time.RFC3339, row[0])
	if err != nil {
		return nil, fmt.Errorf("parsing open_time %q: %w", row[0], err)
	}
	closeTime, err := time.Parse(time.RFC3339, row[1])
	if err != nil {
		return nil, fmt.Errorf("parsing close_time %q: %w", row[1], err)
	}
	nums := make([]float64, 5)
	for j := range nums {
		v, err := strconv.ParseFloat(row[4+j], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s %q: %w", csvHeader[4+j], row[4+j], err)
		}
		nums[j] = v
	}
	return &domain.Kline{
		OpenTime:  openTime,
		CloseTime: closeTime,
		Symbol:    row[2],
		Interval:  row[3],
		Open:      nums[0],
		High:      nums[1],
		Low:       nums[2],
		Close:     nums[3],
		Volume:    nums[4],
	}, nil
}
