// SPDX-License-Identifier: MIT

package geom

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// ParseBox parses one box in text form: ((lo) (hi)) or ((lo) (hi) (type)).
// The dimension is taken from the number of components of lo.
func ParseBox(s string) (Box, error) {
	sc := newBoxScanner(strings.NewReader(s))
	b, err := sc.box()
	if err != nil {
		return Box{}, err
	}
	if tok := sc.next(); tok != "" {
		return Box{}, fmt.Errorf("trailing %q: %w", tok, ErrBadBoxFormat)
	}
	return b, nil
}

// ReadBoxList reads a box-list file: the domain box, a box count, then that
// many boxes. Every box must lie in the domain. The boxes are returned in
// file order; overlap is checked later by NewBoxArray.
func ReadBoxList(r io.Reader) (Box, []Box, error) {
	sc := newBoxScanner(r)
	domain, err := sc.box()
	if err != nil {
		return Box{}, nil, fmt.Errorf("domain: %w", err)
	}
	tok := sc.next()
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return Box{}, nil, fmt.Errorf("box count %q: %w", tok, ErrBadBoxFormat)
	}
	boxes := make([]Box, 0, n)
	for i := 0; i < n; i++ {
		b, err := sc.box()
		if err != nil {
			return Box{}, nil, fmt.Errorf("box %d: %w", i, err)
		}
		if b.Dim() != domain.Dim() {
			return Box{}, nil, fmt.Errorf("box %d %v: %w", i, b, ErrDimMismatch)
		}
		if !domain.ContainsBox(b) {
			return Box{}, nil, fmt.Errorf("box %d %v: %w", i, b, ErrBoxOutsideDomain)
		}
		boxes = append(boxes, b)
	}
	return domain, boxes, nil
}

// WriteBoxList is the inverse of ReadBoxList.
func WriteBoxList(w io.Writer, domain Box, boxes []Box) error {
	if _, err := fmt.Fprintf(w, "%v\n%d\n", domain, len(boxes)); err != nil {
		return err
	}
	for _, b := range boxes {
		if _, err := fmt.Fprintln(w, b); err != nil {
			return err
		}
	}
	return nil
}

// boxScanner splits input into "(", ")", "," and bare words.
type boxScanner struct {
	r      *bufio.Reader
	peeked string
}

func newBoxScanner(r io.Reader) *boxScanner { return &boxScanner{r: bufio.NewReader(r)} }

func (s *boxScanner) next() string {
	if s.peeked != "" {
		t := s.peeked
		s.peeked = ""
		return t
	}
	var sb strings.Builder
	for {
		c, _, err := s.r.ReadRune()
		if err != nil {
			return sb.String()
		}
		switch {
		case unicode.IsSpace(c):
			if sb.Len() > 0 {
				return sb.String()
			}
		case c == '(' || c == ')' || c == ',':
			if sb.Len() > 0 {
				_ = s.r.UnreadRune()
				return sb.String()
			}
			return string(c)
		default:
			sb.WriteRune(c)
		}
	}
}

func (s *boxScanner) expect(want string) error {
	if tok := s.next(); tok != want {
		return fmt.Errorf("want %q, got %q: %w", want, tok, ErrBadBoxFormat)
	}
	return nil
}

// tuple reads "(a,b[,c])".
func (s *boxScanner) tuple() ([]int, error) {
	if err := s.expect("("); err != nil {
		return nil, err
	}
	var vals []int
	for {
		tok := s.next()
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", tok, ErrBadBoxFormat)
		}
		vals = append(vals, v)
		switch sep := s.next(); sep {
		case ",":
		case ")":
			return vals, nil
		default:
			return nil, fmt.Errorf("separator %q: %w", sep, ErrBadBoxFormat)
		}
	}
}

func (s *boxScanner) box() (Box, error) {
	if err := s.expect("("); err != nil {
		return Box{}, err
	}
	lo, err := s.tuple()
	if err != nil {
		return Box{}, err
	}
	hi, err := s.tuple()
	if err != nil {
		return Box{}, err
	}
	dim := len(lo)
	if dim < 2 || dim > MaxSpaceDim || len(hi) != dim {
		return Box{}, fmt.Errorf("dimension %d/%d: %w", len(lo), len(hi), ErrBadBoxFormat)
	}
	var typ IndexType
	tok := s.next()
	if tok == "(" {
		s.peeked = tok
		t, err := s.tuple()
		if err != nil {
			return Box{}, err
		}
		if len(t) != dim {
			return Box{}, fmt.Errorf("type has %d components: %w", len(t), ErrBadBoxFormat)
		}
		for d, v := range t {
			if v != 0 && v != 1 {
				return Box{}, fmt.Errorf("type component %d: %w", v, ErrBadBoxFormat)
			}
			if v == 1 {
				typ |= 1 << uint(d)
			}
		}
		tok = s.next()
	}
	if tok != ")" {
		return Box{}, fmt.Errorf("want \")\", got %q: %w", tok, ErrBadBoxFormat)
	}
	var l, h IntVect
	copy(l[:], lo)
	copy(h[:], hi)
	b := NewBox(dim, l, h, typ)
	if !b.Ok() {
		return Box{}, fmt.Errorf("%v: %w", b, ErrEmptyBox)
	}
	return b, nil
}
