package iges

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const lineWidth = 80

var errNoParams = errors.New("no parameter data")

// Parse reads an IGES file and returns its entity graph.
func Parse(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("iges: read %s: %w", path, err)
	}
	defer f.Close()

	g, err := ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return g, nil
}

// ParseReader parses fixed-width IGES records from r. Entities whose
// parameter data fails to decode stay in the graph with their error
// attached; only structural problems fail the whole parse.
func ParseReader(r io.Reader) (*Graph, error) {
	st := &parserState{graph: newGraph()}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256), 1<<20)
	for sc.Scan() {
		st.lineNo++
		if err := st.feed(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("iges: scan: %w", err)
	}
	return st.finish()
}

// parserState carries everything the record walk needs between lines.
type parserState struct {
	graph  *Graph
	lineNo int

	global     strings.Builder
	haveGlobal bool

	pendingDir string // first line of a directory entry
	dirs       []Directory
	built      bool

	params  strings.Builder
	decoded map[int]bool
}

func (st *parserState) feed(line string) error {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	if len(line) < lineWidth {
		line += strings.Repeat(" ", lineWidth-len(line))
	}

	switch line[72] {
	case 'S', 'T':
		return nil
	case 'G':
		st.global.WriteString(line[:72])
		return nil
	case 'D':
		if err := st.finishGlobal(); err != nil {
			return err
		}
		if st.pendingDir == "" {
			st.pendingDir = line
			return nil
		}
		d, err := parseDirectory(st.pendingDir, line, len(st.dirs))
		if err != nil {
			return fmt.Errorf("iges: line %d: %w", st.lineNo, err)
		}
		st.dirs = append(st.dirs, d)
		st.pendingDir = ""
		return nil
	case 'P':
		if err := st.buildEntities(); err != nil {
			return err
		}
		return st.feedParam(line)
	default:
		return fmt.Errorf("iges: line %d: unknown section code %q", st.lineNo, line[72])
	}
}

func (st *parserState) finishGlobal() error {
	if st.haveGlobal {
		return nil
	}
	st.haveGlobal = true
	g, err := parseGlobal(st.global.String())
	if err != nil {
		return err
	}
	st.graph.Global = g
	return nil
}

// buildEntities creates one entity per directory entry once the D section
// is complete.
func (st *parserState) buildEntities() error {
	if st.built {
		return nil
	}
	st.built = true
	if err := st.finishGlobal(); err != nil {
		return err
	}
	if st.pendingDir != "" {
		return fmt.Errorf("iges: directory entry at line %d has no second line", st.lineNo-1)
	}
	st.decoded = make(map[int]bool, len(st.dirs))
	for _, d := range st.dirs {
		e := newEntity(d.Type)
		*e.Header() = d
		if err := st.graph.add(e); err != nil {
			return err
		}
	}
	return nil
}

func (st *parserState) feedParam(line string) error {
	data := line[:64]
	st.params.WriteString(data)
	if !strings.HasSuffix(strings.TrimSpace(data), string(st.graph.Global.RecordDelim)) {
		return nil
	}

	seq, err := atoiField(line[64:72])
	if err != nil {
		return fmt.Errorf("iges: line %d: back-pointer: %w", st.lineNo, err)
	}
	record := st.params.String()
	st.params.Reset()

	i, ok := st.graph.index[seq]
	if !ok {
		return fmt.Errorf("iges: line %d: parameter data for unknown DE %d", st.lineNo, seq)
	}
	st.decoded[seq] = true
	n := &st.graph.nodes[i]
	if err := decodeRecord(n.entity, record, st.graph.Global); err != nil {
		h := n.entity.Header()
		n.err = &DecodeError{Seq: h.Seq, Type: h.Type, Err: err}
	}
	return nil
}

func decodeRecord(e Entity, record string, g Global) error {
	return e.Decode(splitFields(record, g.ParamDelim, g.RecordDelim))
}

func (st *parserState) finish() (*Graph, error) {
	if err := st.buildEntities(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(st.params.String()) != "" {
		return nil, fmt.Errorf("iges: unterminated parameter record at end of file")
	}
	for i := range st.graph.nodes {
		n := &st.graph.nodes[i]
		h := n.entity.Header()
		if !st.decoded[h.Seq] && n.err == nil {
			n.err = &DecodeError{Seq: h.Seq, Type: h.Type, Err: errNoParams}
		}
	}
	return st.graph, nil
}

// parseDirectory decodes the two 80-column lines of a directory entry.
// index is the entry's position, used when the sequence field is blank.
func parseDirectory(l1, l2 string, index int) (Directory, error) {
	var d Directory
	var err error
	field := func(line string, col int, name string) int {
		if err != nil {
			return 0
		}
		v, e := atoiField(line[col*8 : col*8+8])
		if e != nil {
			err = fmt.Errorf("directory field %s: %w", name, e)
		}
		return v
	}

	d.Type = field(l1, 0, "type")
	d.ParamPointer = field(l1, 1, "parameter pointer")
	d.Structure = field(l1, 2, "structure")
	d.LineFont = field(l1, 3, "line font")
	d.Level = field(l1, 4, "level")
	d.View = field(l1, 5, "view")
	d.Transform = field(l1, 6, "transform")
	d.LabelAssoc = field(l1, 7, "label display")
	d.LineWeight = field(l2, 1, "line weight")
	d.Color = field(l2, 2, "color")
	d.ParamLineCount = field(l2, 3, "parameter line count")
	d.Form = field(l2, 4, "form")
	d.Subscript = field(l2, 8, "subscript")
	if err != nil {
		return d, err
	}
	d.Label = strings.TrimSpace(l2[56:64])

	if d.Status, err = parseStatus(l1[64:72]); err != nil {
		return d, err
	}

	seq, err := atoiField(l1[73:80])
	if err != nil {
		return d, fmt.Errorf("directory sequence: %w", err)
	}
	if seq == 0 {
		seq = 2*index + 1
	}
	d.Seq = seq
	return d, nil
}

func parseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Status{}, nil
	}
	if len(s) > 8 {
		return Status{}, fmt.Errorf("status %q too long", s)
	}
	s = strings.Repeat("0", 8-len(s)) + s
	var out [4]int
	for i := range out {
		v, err := strconv.Atoi(s[2*i : 2*i+2])
		if err != nil {
			return Status{}, fmt.Errorf("status %q: %w", s, errBadNumber)
		}
		out[i] = v
	}
	return Status{Blank: out[0], Subordinate: out[1], Use: out[2], Hierarchy: out[3]}, nil
}

// atoiField parses a right-justified integer field; blank is zero.
func atoiField(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadNumber, s)
	}
	return v, nil
}
