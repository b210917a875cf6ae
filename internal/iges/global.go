package iges

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const (
	defaultParamDelim  = ','
	defaultRecordDelim = ';'
)

// Global is the decoded Global section.
type Global struct {
	ParamDelim  byte
	RecordDelim byte

	SenderProductID   string
	FileName          string
	SystemID          string
	Preprocessor      string
	IntegerBits       int
	SingleMagnitude   int
	SingleSignificand int
	DoubleMagnitude   int
	DoubleSignificand int
	ReceiverProductID string

	Scale        float64
	UnitFlag     int
	UnitName     string
	Gradations   int
	MaxLineWidth float64
	Date         string
	Resolution   float64
	MaxCoord     float64

	Author           string
	Organization     string
	Version          int
	DraftingStandard int
	ModelDate        string
	Protocol         string
}

// splitFields splits free-format data into raw fields, stopping at the
// record terminator. A Hollerith constant (nH...) at the start of a field is
// taken verbatim, so it may contain either delimiter.
func splitFields(s string, delim, term byte) []string {
	var fields []string
	start := 0
	for {
		i := start
		for i < len(s) && s[i] == ' ' {
			i++
		}
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > i && j < len(s) && s[j] == 'H' {
			n, _ := strconv.Atoi(s[i:j])
			i = min(j+1+n, len(s))
		}
		for i < len(s) && s[i] != delim && s[i] != term {
			i++
		}
		fields = append(fields, s[start:i])
		if i >= len(s) || s[i] == term {
			return fields
		}
		start = i + 1
	}
}

// hollerith decodes an nH... field. Non-Hollerith fields are returned
// trimmed; text is Latin-1.
func hollerith(field string) string {
	f := strings.TrimSpace(field)
	j := 0
	for j < len(f) && f[j] >= '0' && f[j] <= '9' {
		j++
	}
	if j == 0 || j >= len(f) || f[j] != 'H' {
		return f
	}
	n, _ := strconv.Atoi(f[:j])
	raw := f[j+1:]
	if n < len(raw) {
		raw = raw[:n]
	}
	s, err := charmap.ISO8859_1.NewDecoder().String(raw)
	if err != nil {
		return raw
	}
	return s
}

// delimiters reads the first two Global fields, each either a 1H
// constant or defaulted.
func delimiters(s string) (delim, term byte) {
	delim, term = defaultParamDelim, defaultRecordDelim
	s = strings.TrimLeft(s, " ")
	if strings.HasPrefix(s, "1H") && len(s) > 2 {
		delim = s[2]
		s = s[3:]
	}
	// skip the delimiter that ends field 1
	if len(s) > 0 && s[0] == delim {
		s = strings.TrimLeft(s[1:], " ")
	}
	if strings.HasPrefix(s, "1H") && len(s) > 2 {
		term = s[2]
	}
	return delim, term
}

// parseGlobal decodes the concatenated Global section.
func parseGlobal(s string) (Global, error) {
	g := Global{}
	g.ParamDelim, g.RecordDelim = delimiters(s)
	fields := splitFields(s, g.ParamDelim, g.RecordDelim)

	str := func(i int) string {
		if i >= len(fields) {
			return ""
		}
		return hollerith(fields[i])
	}
	var err error
	num := func(i int) float64 {
		if err != nil || i >= len(fields) {
			return 0
		}
		p := &params{tokens: fields[i : i+1]}
		v, e := p.float()
		if e != nil {
			err = fmt.Errorf("iges: global field %d: %w", i+1, e)
		}
		return v
	}
	integer := func(i int) int {
		if err != nil || i >= len(fields) {
			return 0
		}
		p := &params{tokens: fields[i : i+1]}
		v, e := p.int()
		if e != nil {
			err = fmt.Errorf("iges: global field %d: %w", i+1, e)
		}
		return v
	}

	g.SenderProductID = str(2)
	g.FileName = str(3)
	g.SystemID = str(4)
	g.Preprocessor = str(5)
	g.IntegerBits = integer(6)
	g.SingleMagnitude = integer(7)
	g.SingleSignificand = integer(8)
	g.DoubleMagnitude = integer(9)
	g.DoubleSignificand = integer(10)
	g.ReceiverProductID = str(11)
	g.Scale = num(12)
	g.UnitFlag = integer(13)
	g.UnitName = str(14)
	g.Gradations = integer(15)
	g.MaxLineWidth = num(16)
	g.Date = str(17)
	g.Resolution = num(18)
	g.MaxCoord = num(19)
	g.Author = str(20)
	g.Organization = str(21)
	g.Version = integer(22)
	g.DraftingStandard = integer(23)
	g.ModelDate = str(24)
	g.Protocol = str(25)
	return g, err
}
