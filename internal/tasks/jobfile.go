package tasks

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/spoolr/internal/models"
	"github.com/desertthunder/spoolr/internal/shared"
)

// Job file keys, lower-case.
const (
	KeyFilamentType = "filamenttype"
	KeyType         = "type"
	KeyColor        = "color"
	KeyDiameter     = "diameter"
	KeyAmountGrams  = "amountgrams"
	KeyPrinter      = "printer"
)

// FieldError reports a missing or unparsable job file field.
type FieldError struct {
	Field string
	Value string
	Err   error // shared.ErrMissingField or shared.ErrInvalidNumber
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, shared.ErrInvalidNumber) {
		return fmt.Sprintf("%v for %s: %q", e.Err, e.Field, e.Value)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ParseJobFile reads the usage submission file at path.
func ParseJobFile(path string) (*models.PrintJob, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", shared.ErrFileNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrFileNotFound, path, err)
	}
	defer f.Close()

	return ParseJob(f)
}

// ParseJob reads key=value lines from r and resolves them into a [models.PrintJob].
func ParseJob(r io.Reader) (*models.PrintJob, error) {
	fields, err := readFields(r)
	if err != nil {
		return nil, err
	}

	filamentType, ok := fields[KeyFilamentType]
	if !ok {
		filamentType, ok = fields[KeyType]
	}
	if !ok {
		return nil, &FieldError{Field: KeyFilamentType, Err: shared.ErrMissingField}
	}

	color, ok := fields[KeyColor]
	if !ok {
		return nil, &FieldError{Field: KeyColor, Err: shared.ErrMissingField}
	}

	diameter, err := numberField(fields, KeyDiameter)
	if err != nil {
		return nil, err
	}

	amount, err := numberField(fields, KeyAmountGrams)
	if err != nil {
		return nil, err
	}

	printer, ok := fields[KeyPrinter]
	if !ok {
		return nil, &FieldError{Field: KeyPrinter, Err: shared.ErrMissingField}
	}

	return &models.PrintJob{
		FilamentType: filamentType,
		Color:        color,
		Diameter:     diameter,
		AmountGrams:  amount,
		PrinterName:  printer,
	}, nil
}

const byteOrderMark = "\ufeff"

// readFields collects trimmed key=value pairs with lower-cased keys. Later keys win.
func readFields(r io.Reader) (map[string]string, error) {
	fields := make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for first := true; scanner.Scan(); first = false {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, byteOrderMark)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		fields[shared.NormalizeKey(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	return fields, nil
}

// numberField parses a decimal number with '.' as separator. Hexadecimal forms, NaN and
// infinities are rejected.
func numberField(fields map[string]string, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, &FieldError{Field: key, Err: shared.ErrMissingField}
	}

	if isHex(raw) {
		return 0, &FieldError{Field: key, Value: raw, Err: shared.ErrInvalidNumber}
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, &FieldError{Field: key, Value: raw, Err: shared.ErrInvalidNumber}
	}
	return n, nil
}

func isHex(raw string) bool {
	digits := strings.TrimLeft(raw, "+-")
	return strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X")
}
