package script

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/TFMV/forcepad/geom"
)

// Processor turns raw script bytes into a Script.
type Processor interface {
	// ProcessData parses data into steps
	ProcessData(data []byte) (*Script, error)

	// GetName returns the name of the processor
	GetName() string
}

// JSONProcessor handles scripts written as a JSON array of step objects:
//
//	[{"op": "mode", "mode": "add"}, {"op": "click", "x": 100, "y": 80}]
type JSONProcessor struct{}

// NewJSONProcessor creates a new JSON processor
func NewJSONProcessor() *JSONProcessor {
	return &JSONProcessor{}
}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

type jsonStep struct {
	Op       string  `json:"op"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Mode     string  `json:"mode"`
	Frames   int     `json:"frames"`
	Directed bool    `json:"directed"`
}

// ProcessData processes JSON data
func (p *JSONProcessor) ProcessData(data []byte) (*Script, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	lineAt := func() int {
		return bytes.Count(data[:dec.InputOffset()], []byte("\n")) + 1
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrapf(ErrSyntax, "line %d: %v", lineAt(), err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.Wrapf(ErrSyntax, "line %d: expected an array of steps", lineAt())
	}

	s := &Script{Name: "json"}
	for dec.More() {
		var raw jsonStep
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrapf(ErrSyntax, "line %d: %v", lineAt(), err)
		}
		// Line of the step's closing brace.
		line := lineAt()

		op, err := ParseOp(raw.Op)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if err := checkFrames(raw.Frames); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		s.Steps = append(s.Steps, Step{
			Op:       op,
			Pos:      geom.V(raw.X, raw.Y),
			Mode:     raw.Mode,
			Frames:   raw.Frames,
			Directed: raw.Directed,
			Line:     line,
		})
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrapf(ErrSyntax, "line %d: %v", lineAt(), err)
	}
	return s, nil
}

// CSVProcessor handles scripts written as CSV with a header row. Only the
// op column is required; the others are x, y, mode, frames and directed.
type CSVProcessor struct{}

// NewCSVProcessor creates a new CSV processor
func NewCSVProcessor() *CSVProcessor {
	return &CSVProcessor{}
}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV data
func (p *CSVProcessor) ProcessData(data []byte) (*Script, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(ErrSyntax, "reading CSV header: "+err.Error())
	}

	// Find columns by name
	cols := map[string]int{}
	for i, col := range header {
		cols[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := cols["op"]; !ok {
		return nil, errors.Wrap(ErrSyntax, "CSV must contain an op column")
	}

	s := &Script{Name: "csv"}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(ErrSyntax, err.Error())
		}
		line, _ := reader.FieldPos(0)

		field := func(name string) string {
			if i, ok := cols[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}

		st, err := parseCSVStep(field)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		st.Line = line
		s.Steps = append(s.Steps, st)
	}

	return s, nil
}

func parseCSVStep(field func(string) string) (Step, error) {
	var st Step
	op, err := ParseOp(field("op"))
	if err != nil {
		return st, err
	}
	st.Op = op
	st.Mode = field("mode")

	num := func(name string) (float64, error) {
		v := field(name)
		if v == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		return f, errors.Wrapf(err, "column %s", name)
	}
	if st.Pos.X, err = num("x"); err != nil {
		return st, err
	}
	if st.Pos.Y, err = num("y"); err != nil {
		return st, err
	}

	if v := field("frames"); v != "" {
		if st.Frames, err = strconv.Atoi(v); err != nil {
			return st, errors.Wrap(err, "column frames")
		}
		if err := checkFrames(st.Frames); err != nil {
			return st, err
		}
	}
	if v := field("directed"); v != "" {
		if st.Directed, err = strconv.ParseBool(v); err != nil {
			return st, errors.Wrap(err, "column directed")
		}
	}
	return st, nil
}

func checkFrames(n int) error {
	if n < 0 {
		return errors.Wrapf(ErrSyntax, "frames %d is negative", n)
	}
	return nil
}

// GetProcessor returns the appropriate processor for the given format
func GetProcessor(format string) (Processor, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		return NewJSONProcessor(), nil
	case "csv":
		return NewCSVProcessor(), nil
	default:
		return nil, errors.Errorf("unsupported script format: %s", format)
	}
}

// Load parses a script, choosing the processor from the file extension.
func Load(path string, data []byte) (*Script, error) {
	p, err := GetProcessor(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	s, err := p.ProcessData(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	s.Name = filepath.Base(path)
	return s, nil
}
