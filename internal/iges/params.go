package iges

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// exponentFixer rewrites Fortran double-precision exponents (1.0D3).
var exponentFixer = strings.NewReplacer("D", "E", "d", "e")

// params walks a parameter token list. Unlike a binary reader it never
// returns zero on overrun: every read past the end is an error.
type params struct {
	tokens []string
	off    int
}

// begin checks token 0 against the directory type and positions the reader
// on the first real parameter.
func begin(d *Directory, tokens []string) (*params, error) {
	p := &params{tokens: tokens}
	typ, err := p.int()
	if err != nil {
		return nil, err
	}
	if typ != d.Type {
		return nil, fmt.Errorf("%w: parameter record type %d, directory type %d", errBadLayout, typ, d.Type)
	}
	return p, nil
}

func (p *params) remaining() int {
	return len(p.tokens) - p.off
}

// need fails unless n more tokens are available.
func (p *params) need(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative count %d", errBadLayout, n)
	}
	if p.remaining() < n {
		return fmt.Errorf("%w: need %d more at index %d, have %d", errShortParams, n, p.off, p.remaining())
	}
	return nil
}

func (p *params) next() (string, error) {
	if err := p.need(1); err != nil {
		return "", err
	}
	tok := strings.TrimSpace(p.tokens[p.off])
	p.off++
	return tok, nil
}

func (p *params) int() (int, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	if tok == "" {
		return 0, nil // defaulted
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: integer %q at index %d", errBadNumber, tok, p.off-1)
	}
	return v, nil
}

// count reads a non-negative integer.
func (p *params) count() (int, error) {
	n, err := p.int()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative count %d at index %d", errBadLayout, n, p.off-1)
	}
	return n, nil
}

// flag reads a 0/1 property.
func (p *params) flag() (bool, error) {
	v, err := p.int()
	if err != nil {
		return false, err
	}
	if v != 0 && v != 1 {
		return false, fmt.Errorf("%w: flag %d at index %d", errBadLayout, v, p.off-1)
	}
	return v == 1, nil
}

func (p *params) float() (float64, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	if tok == "" {
		return 0, nil
	}
	v, err := cast.ToFloat64E(exponentFixer.Replace(tok))
	if err != nil {
		return 0, fmt.Errorf("%w: real %q at index %d", errBadNumber, tok, p.off-1)
	}
	return v, nil
}

func (p *params) floats(n int) ([]float64, error) {
	if err := p.need(n); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		v, err := p.float()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (p *params) ints(n int) ([]int, error) {
	if err := p.need(n); err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i := range out {
		v, err := p.int()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (p *params) points(n int) ([][3]float64, error) {
	flat, err := p.floats(3 * n)
	if err != nil {
		return nil, err
	}
	out := make([][3]float64, n)
	for i := range out {
		out[i] = [3]float64{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}
	return out, nil
}
