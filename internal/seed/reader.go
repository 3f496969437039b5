// Package seed loads verb catalogs from YAML, JSON, CSV and Excel files.
package seed

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a seed file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Row is one verb as written in a seed file.
type Row struct {
	Infinitive  string `yaml:"infinitive" json:"infinitive"`
	Past        string `yaml:"past" json:"past"`
	Participle  string `yaml:"participle" json:"participle"`
	Translation string `yaml:"translation" json:"translation"`
	Example     string `yaml:"example" json:"example"`
	// ExampleB2 is accepted as an alias of Example.
	ExampleB2 string `yaml:"example_b2" json:"example_b2"`
}

// document is the wrapped form of a seed file: {"verbs": [...]}.
type document struct {
	Verbs []Row `yaml:"verbs" json:"verbs"`
}

// columns is the order of CSV and Excel columns when the file has no header.
var columns = []string{"infinitive", "past", "participle", "translation", "example"}

// FormatOf infers the format from a file extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported seed file: %s", name)
}

// Reader reads seed files from disk or over HTTP.
type Reader struct {
	client *resty.Client
}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{
		client: resty.New(),
	}
}

// Read loads the rows of a local path or an http(s) URL.
func (r *Reader) Read(ctx context.Context, source string) ([]Row, error) {
	name := source
	var data []byte
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		name = path.Base(u.Path)
		data, err = r.fetch(ctx, source)
		if err != nil {
			return nil, err
		}
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("os.ReadFile(%s) > %w", source, err)
		}
	}

	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}
	return Parse(format, data)
}

func (r *Reader) fetch(ctx context.Context, source string) ([]byte, error) {
	res, err := r.client.R().
		SetContext(ctx).
		Get(source)
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}
	return res.Body(), nil
}

// Parse decodes rows of the given format.
func Parse(format Format, data []byte) ([]Row, error) {
	switch format {
	case FormatYAML:
		return parseDocument(data, yaml.Unmarshal)
	case FormatJSON:
		return parseDocument(data, json.Unmarshal)
	case FormatCSV:
		return parseCSV(data)
	case FormatXLSX:
		return parseXLSX(data)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// parseDocument accepts either a list of rows or a document with a verbs key.
func parseDocument(data []byte, unmarshal func([]byte, any) error) ([]Row, error) {
	var rows []Row
	listErr := unmarshal(data, &rows)
	if listErr == nil {
		return rows, nil
	}
	var doc document
	if err := unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal seed file > %w", errors.Join(listErr, err))
	}
	return doc.Verbs, nil
}

func parseCSV(data []byte) ([]Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reader.Read > %w", err)
		}
		records = append(records, record)
	}
	return tableRows(records), nil
}

func parseXLSX(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("excelize.OpenReader > %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("f.GetRows(%s) > %w", sheets[0], err)
	}
	return tableRows(records), nil
}

// tableRows maps spreadsheet records to rows. A first record naming the
// infinitive column is treated as the header.
func tableRows(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}
	order := columns
	if header := normalizeHeader(records[0]); slices.Contains(header, "infinitive") {
		order = header
		records = records[1:]
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		var row Row
		for i, value := range record {
			if i >= len(order) {
				break
			}
			switch order[i] {
			case "infinitive":
				row.Infinitive = value
			case "past":
				row.Past = value
			case "participle":
				row.Participle = value
			case "translation":
				row.Translation = value
			case "example", "example_b2":
				row.Example = value
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func normalizeHeader(record []string) []string {
	header := make([]string, len(record))
	for i, name := range record {
		header[i] = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	}
	return header
}
