package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxSize is the upload cap used when Limits.MaxSize is not set.
	DefaultMaxSize int64 = 5 << 20
	// DefaultExtension is the filename suffix accepted when Limits.Extension is not set.
	DefaultExtension = ".csv"
)

var (
	ErrInvalidExtension     = errors.New("invalid file extension")
	ErrEmptyInput           = errors.New("empty input")
	ErrTooLarge             = errors.New("input too large")
	ErrEncoding             = errors.New("input is not valid utf-8")
	ErrParse                = errors.New("malformed csv")
	ErrMissingHeaderOrEmpty = errors.New("missing header or no data rows")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Limits bounds what Parse accepts.
type Limits struct {
	MaxSize   int64
	Extension string
}

func (l Limits) withDefaults() Limits {
	if l.MaxSize <= 0 {
		l.MaxSize = DefaultMaxSize
	}
	if l.Extension == "" {
		l.Extension = DefaultExtension
	}
	return l
}

// Parse validates an upload and parses it into a Table.
//
// The checks run in a fixed order so that the reported error is stable:
// extension, emptiness, size, encoding, CSV syntax, then shape.
func Parse(filename string, data []byte, limits Limits) (*Table, Info, error) {
	limits = limits.withDefaults()

	if !strings.HasSuffix(filename, limits.Extension) {
		return nil, Info{}, fmt.Errorf("%w: %q", ErrInvalidExtension, filename)
	}
	if len(data) == 0 {
		return nil, Info{}, ErrEmptyInput
	}
	if int64(len(data)) > limits.MaxSize {
		return nil, Info{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(data), limits.MaxSize)
	}
	if !utf8.Valid(data) {
		return nil, Info{}, ErrEncoding
	}

	t, err := Read(data)
	if err != nil {
		return nil, Info{}, err
	}

	return t, Info{
		Rows:    int64(t.Len()),
		Columns: append([]string(nil), t.Columns...),
		Size:    int64(len(data)),
	}, nil
}

// Read parses CSV bytes whose first record is the header.
//
// It fails with ErrParse on syntax errors or rows wider than the header, and
// with ErrMissingHeaderOrEmpty when there is no header or no data row.
func Read(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeaderOrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	columns := normalizeHeader(header)
	if len(columns) == 0 {
		return nil, ErrMissingHeaderOrEmpty
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}

		if len(record) > len(columns) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: expected %d fields in line %d, saw %d", ErrParse, len(columns), line, len(record))
		}
		if len(record) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, record)
			record = padded
		}

		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return nil, ErrMissingHeaderOrEmpty
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// normalizeHeader names blank cells and de-duplicates repeated names.
func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, name := range header {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		if n, dup := seen[name]; dup {
			base := name
			for {
				n++
				name = base + "." + strconv.Itoa(n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}

		seen[name] = 0
		columns[i] = name
	}

	return columns
}
