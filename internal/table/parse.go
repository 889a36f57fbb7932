package table

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrUnparseable is the single error reported for any upload that cannot be
// turned into a table.
var ErrUnparseable = errors.New("unparseable upload")

// ParseError carries the underlying cause of an unparseable upload.
// It matches ErrUnparseable under errors.Is; the cause is for logs only.
type ParseError struct {
	Filename string
	Cause    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnparseable, e.Filename)
}

func (e *ParseError) Unwrap() error {
	return ErrUnparseable
}

func unparseable(filename string, cause error) error {
	return &ParseError{Filename: filename, Cause: cause}
}

// Format identifies an upload format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatJSON    Format = "json"
	FormatUnknown Format = ""
)

// Detect picks the format from the filename. The check is a substring
// match, so "sectors.xlsx" and "data.csv.txt" are both accepted.
func Detect(filename string) Format {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "csv"):
		return FormatCSV
	case strings.Contains(name, "xls"):
		return FormatXLSX
	case strings.Contains(name, "json"):
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// DecodeDataURL extracts the payload of a "data:<mime>;base64,<payload>"
// upload. A bare base64 string is accepted as well.
func DecodeDataURL(contents string) ([]byte, error) {
	payload := contents
	if i := strings.IndexByte(contents, ','); i >= 0 {
		payload = contents[i+1:]
	}
	payload = strings.TrimSpace(payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, unparseable("data url", fmt.Errorf("decoding base64: %w", err))
	}
	return data, nil
}

// Parse converts uploaded bytes into a table, dispatching on filename.
// Every failure, including an unsupported format, is reported as a
// *ParseError matching ErrUnparseable.
func Parse(filename string, data []byte) (*Table, error) {
	var (
		t   *Table
		err error
	)
	switch Detect(filename) {
	case FormatCSV:
		t, err = parseCSV(data)
	case FormatXLSX:
		t, err = parseXLSX(data)
	case FormatJSON:
		t, err = parseJSON(data)
	default:
		err = fmt.Errorf("unsupported file type")
	}
	if err != nil {
		return nil, unparseable(filename, err)
	}
	if len(t.Columns) == 0 {
		return nil, unparseable(filename, fmt.Errorf("no columns"))
	}
	return t, nil
}

// ParseDataURL decodes and parses an upload in one step.
func ParseDataURL(filename, contents string) (*Table, error) {
	data, err := DecodeDataURL(contents)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Filename = filename
		}
		return nil, err
	}
	return Parse(filename, data)
}

// Cause returns the underlying reason for a parse failure, or err itself.
func Cause(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Cause != nil {
		return pe.Cause
	}
	return err
}
