package serialization

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// maxTextLine bounds a single line of the text format (one matrix row).
const maxTextLine = 64 << 20

// WriteText encodes m in the text format.
//
// Each layer is followed by the PARAM blocks of its tensors. Tensors that do
// not belong to any layer are written after the last layer.
func WriteText(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(TextMagic + " " + strconv.Itoa(TextVersion) + "\n")

	written := make([]bool, len(m.Tensors))
	for _, l := range m.Layers {
		token, err := layerToken(l)
		if err != nil {
			return err
		}
		bw.WriteString("LAYER " + l.Name + " " + token)
		if len(l.Inputs) > 0 {
			bw.WriteString(" FROM " + strings.Join(l.Inputs, ", "))
		}
		bw.WriteByte('\n')

		for i, t := range m.Tensors {
			if !written[i] && strings.HasPrefix(t.Name, l.Name+".") {
				if err := writeParam(bw, t); err != nil {
					return err
				}
				written[i] = true
			}
		}
	}
	for i, t := range m.Tensors {
		if !written[i] {
			if err := writeParam(bw, t); err != nil {
				return err
			}
		}
	}

	for _, o := range m.Outputs {
		bw.WriteString("OUTPUT " + o + "\n")
	}
	bw.WriteString("END\n")
	return errors.Wrap(bw.Flush(), "failed to write text model")
}

func layerToken(l LayerMeta) (string, error) {
	size := strconv.Itoa(l.Size)
	switch l.Kind {
	case "INPUT", "ADD", "CONCAT":
		return l.Kind + "(" + size + ")", nil
	case "DENSE":
		return "DENSE(" + size + ", " + l.Activation + ")", nil
	case "SOFTMAX":
		if l.Epsilon == 0 {
			return "SOFTMAX(" + size + ")", nil
		}
		return "SOFTMAX(" + size + ", " + strconv.FormatFloat(l.Epsilon, 'g', -1, 64) + ")", nil
	default:
		return "", errors.Errorf("layer %q: unknown kind %q", l.Name, l.Kind)
	}
}

// writeParam writes one matrix, one row per line:
//
//	PARAM h.weight 2 3
//	[[1,2,3]
//	[4,5,6]]
func writeParam(bw *bufio.Writer, t Tensor) error {
	if t.Rows <= 0 || t.Cols <= 0 || t.Rows*t.Cols != len(t.Data) {
		return errors.Errorf("tensor %q: shape [%d %d] does not match %d values", t.Name, t.Rows, t.Cols, len(t.Data))
	}
	bw.WriteString("PARAM " + t.Name + " " + strconv.Itoa(t.Rows) + " " + strconv.Itoa(t.Cols) + "\n")

	var buf []byte
	for r := 0; r < t.Rows; r++ {
		buf = buf[:0]
		if r == 0 {
			buf = append(buf, '[')
		}
		buf = append(buf, '[')
		for c := 0; c < t.Cols; c++ {
			v := t.Data[r*t.Cols+c]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrNonFinite, "tensor %q element [%d %d]", t.Name, r, c)
			}
			if c > 0 {
				buf = append(buf, ',')
			}
			buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		}
		buf = append(buf, ']')
		if r == t.Rows-1 {
			buf = append(buf, ']')
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	return nil
}

// textReader tracks the position in a text model.
type textReader struct {
	sc   *bufio.Scanner
	line int
}

// next returns the next non-blank line, trimmed.
func (tr *textReader) next() (string, bool) {
	for tr.sc.Scan() {
		tr.line++
		if s := strings.TrimSpace(tr.sc.Text()); s != "" {
			return s, true
		}
	}
	return "", false
}

func (tr *textReader) errorf(format string, args ...any) error {
	return &SyntaxError{Line: tr.line, Msg: errors.Errorf(format, args...).Error()}
}

// ReadText decodes a model in the text format.
//
// The grammar is strict: unknown statements, malformed numbers, NaN or
// infinite values, wrong matrix dimensions, a missing END and content after
// END are all errors.
func ReadText(r io.Reader) (*Model, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxTextLine)
	tr := &textReader{sc: sc}

	head, ok := tr.next()
	if !ok {
		return nil, tr.checkScan(&SyntaxError{Line: tr.line, Msg: "empty input"})
	}
	fields := strings.Fields(head)
	if len(fields) != 2 || fields[0] != TextMagic {
		return nil, errors.Wrapf(ErrInvalidMagic, "line %d: want %q header", tr.line, TextMagic+" "+strconv.Itoa(TextVersion))
	}
	if v, err := strconv.Atoi(fields[1]); err != nil || v != TextVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "line %d: got %q, expected %d", tr.line, fields[1], TextVersion)
	}

	m := &Model{}
	params := make(map[string]bool)
	for {
		line, ok := tr.next()
		if !ok {
			return nil, tr.checkScan(&SyntaxError{Line: tr.line, Msg: "missing END"})
		}

		keyword, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		switch keyword {
		case "LAYER":
			l, err := tr.parseLayer(rest)
			if err != nil {
				return nil, err
			}
			m.Layers = append(m.Layers, l)

		case "PARAM":
			t, err := tr.parseParam(rest)
			if err != nil {
				return nil, err
			}
			if params[t.Name] {
				return nil, tr.errorf("duplicate PARAM %q", t.Name)
			}
			params[t.Name] = true
			m.Tensors = append(m.Tensors, t)

		case "OUTPUT":
			if rest == "" || strings.ContainsAny(rest, " \t,") {
				return nil, tr.errorf("OUTPUT wants exactly one layer name, got %q", rest)
			}
			m.Outputs = append(m.Outputs, rest)

		case "END":
			if rest != "" {
				return nil, tr.errorf("unexpected %q after END", rest)
			}
			if extra, ok := tr.next(); ok {
				return nil, tr.errorf("content after END: %q", extra)
			}
			if err := tr.sc.Err(); err != nil {
				return nil, errors.Wrap(err, "failed to read text model")
			}
			return m, nil

		default:
			return nil, tr.errorf("unknown statement %q", keyword)
		}
	}
}

func (tr *textReader) checkScan(fallback error) error {
	if err := tr.sc.Err(); err != nil {
		return errors.Wrap(err, "failed to read text model")
	}
	return fallback
}

// parseLayer parses `name KIND(args) [FROM a, b, ...]`.
func (tr *textReader) parseLayer(s string) (LayerMeta, error) {
	name, rest, ok := strings.Cut(s, " ")
	if !ok || name == "" {
		return LayerMeta{}, tr.errorf("LAYER wants a name and a descriptor, got %q", s)
	}
	closeIdx := strings.IndexByte(rest, ')')
	openIdx := strings.IndexByte(rest, '(')
	if openIdx <= 0 || closeIdx < openIdx {
		return LayerMeta{}, tr.errorf("layer %q: malformed descriptor %q", name, rest)
	}

	l := LayerMeta{Name: name, Kind: rest[:openIdx]}
	args := splitList(rest[openIdx+1 : closeIdx])

	if tail := strings.TrimSpace(rest[closeIdx+1:]); tail != "" {
		from, ok := strings.CutPrefix(tail, "FROM ")
		if !ok {
			return LayerMeta{}, tr.errorf("layer %q: expected FROM, got %q", name, tail)
		}
		l.Inputs = splitList(from)
		for _, in := range l.Inputs {
			if in == "" || strings.ContainsAny(in, " \t") {
				return LayerMeta{}, tr.errorf("layer %q: malformed input list %q", name, from)
			}
		}
	}

	minArgs, maxArgs := 1, 1
	switch l.Kind {
	case "INPUT", "ADD", "CONCAT":
	case "DENSE":
		minArgs, maxArgs = 2, 2
	case "SOFTMAX":
		maxArgs = 2
	default:
		return LayerMeta{}, tr.errorf("layer %q: unknown kind %q", name, l.Kind)
	}
	if len(args) < minArgs || len(args) > maxArgs {
		return LayerMeta{}, tr.errorf("layer %q: %s takes %d-%d arguments, got %d", name, l.Kind, minArgs, maxArgs, len(args))
	}

	size, err := strconv.Atoi(args[0])
	if err != nil || size <= 0 {
		return LayerMeta{}, tr.errorf("layer %q: invalid size %q", name, args[0])
	}
	l.Size = size

	switch l.Kind {
	case "DENSE":
		if args[1] == "" {
			return LayerMeta{}, tr.errorf("layer %q: missing activation", name)
		}
		l.Activation = args[1]
	case "SOFTMAX":
		if len(args) == 2 {
			eps, err := parseFinite(args[1])
			if err != nil || eps < 0 {
				return LayerMeta{}, tr.errorf("layer %q: invalid epsilon %q", name, args[1])
			}
			l.Epsilon = eps
		}
	}
	return l, nil
}

// parseParam parses `name rows cols` and the matrix block that follows.
func (tr *textReader) parseParam(s string) (Tensor, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return Tensor{}, tr.errorf("PARAM wants name rows cols, got %q", s)
	}
	t := Tensor{Name: fields[0]}
	if err := ValidateTensorName(t.Name); err != nil {
		return Tensor{}, tr.errorf("%v", err)
	}
	var err error
	if t.Rows, err = strconv.Atoi(fields[1]); err != nil || t.Rows <= 0 {
		return Tensor{}, tr.errorf("PARAM %q: invalid row count %q", t.Name, fields[1])
	}
	if t.Cols, err = strconv.Atoi(fields[2]); err != nil || t.Cols <= 0 {
		return Tensor{}, tr.errorf("PARAM %q: invalid column count %q", t.Name, fields[2])
	}

	t.Data = make([]float64, 0, t.Rows*t.Cols)
	for r := 0; r < t.Rows; r++ {
		line, ok := tr.next()
		if !ok {
			return Tensor{}, tr.checkScan(tr.errorf("PARAM %q: expected %d rows, got %d", t.Name, t.Rows, r))
		}
		row := line
		if r == 0 {
			if row, ok = strings.CutPrefix(row, "["); !ok {
				return Tensor{}, tr.errorf("PARAM %q: matrix must open with \"[[\"", t.Name)
			}
		}
		if r == t.Rows-1 {
			if row, ok = strings.CutSuffix(row, "]"); !ok {
				return Tensor{}, tr.errorf("PARAM %q: matrix must close with \"]]\"", t.Name)
			}
		}
		if !strings.HasPrefix(row, "[") || !strings.HasSuffix(row, "]") || len(row) < 2 {
			return Tensor{}, tr.errorf("PARAM %q: row %d must be bracketed, got %q", t.Name, r, line)
		}

		values := strings.Split(row[1:len(row)-1], ",")
		if len(values) != t.Cols {
			return Tensor{}, tr.errorf("PARAM %q: row %d has %d values, want %d", t.Name, r, len(values), t.Cols)
		}
		for c, text := range values {
			v, err := parseFinite(strings.TrimSpace(text))
			if err != nil {
				return Tensor{}, tr.errorf("PARAM %q: element [%d %d]: %v", t.Name, r, c, err)
			}
			t.Data = append(t.Data, v)
		}
	}
	return t, nil
}

// parseFinite parses a float64 and rejects NaN, infinities and overflow.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("invalid number %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Wrapf(ErrNonFinite, "%q", s)
	}
	return v, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
