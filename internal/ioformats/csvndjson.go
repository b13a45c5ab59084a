
package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"crawlextract/internal/models"
)

// maxLine bounds one NDJSON record; captured bodies can be large.
const maxLine = 16 << 20

// ReadRecords reads responses to process from a CSV (expects header with
// "url") or NDJSON file. NDJSON lines are either captured responses
// ({"url","pageId","header","body"}) or bare URLs. Records without a header
// still need to be fetched.
func ReadRecords(path string) ([]models.Response, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return readCSV(path)
	case ".ndjson", ".jsonl":
		return readNDJSON(path)
	default:
		// try csv then ndjson
		if recs, err := readCSV(path); err == nil && len(recs) > 0 {
			return recs, nil
		}
		return readNDJSON(path)
	}
}

// readCSV reads a url column plus the optional pageId, header and body
// columns of a captured response. Rows with an empty url are skipped.
func readCSV(path string) ([]models.Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	head, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty csv")
	}
	if err != nil {
		return nil, err
	}
	cols := map[string]int{"url": -1, "pageid": -1, "header": -1, "body": -1}
	for i, h := range head {
		name := strings.ToLower(strings.TrimSpace(h))
		if c, ok := cols[name]; ok && c < 0 {
			cols[name] = i
		}
	}
	if cols["url"] < 0 {
		return nil, errors.New("csv must contain a 'url' header column")
	}
	field := func(row []string, name string) string {
		if i := cols[name]; i >= 0 && i < len(row) {
			return row[i]
		}
		return ""
	}

	var out []models.Response
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)
		rec := models.Response{
			URL:    strings.TrimSpace(field(row, "url")),
			Header: field(row, "header"),
			Body:   field(row, "body"),
		}
		if rec.URL == "" {
			continue
		}
		if id := strings.TrimSpace(field(row, "pageid")); id != "" {
			rec.PageID, err = strconv.ParseInt(id, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: pageId: %w", line, err)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func readNDJSON(path string) ([]models.Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []models.Response
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") {
			var rec models.Response
			if err := json.Unmarshal([]byte(line), &rec); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			if rec.URL == "" {
				return nil, fmt.Errorf("line %d: missing url", n)
			}
			out = append(out, rec)
			continue
		}
		// fallback: treat whole line as url
		out = append(out, models.Response{URL: line})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no records found in ndjson")
	}
	return out, nil
}

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
