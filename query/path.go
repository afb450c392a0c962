package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one dot-separated step of a path expression.
type Segment struct {
	Name     string
	Selector string // content of [..]; empty when HasSel is false
	HasSel   bool
}

func (s Segment) String() string {
	if s.HasSel {
		return s.Name + "[" + s.Selector + "]"
	}
	return s.Name
}

// Path is a parsed path expression. The empty Path addresses the root.
type Path struct {
	expr     string
	segments []Segment
}

// String returns the expression the path was parsed from.
func (p Path) String() string { return p.expr }

// Segments returns the parsed steps of p.
func (p Path) Segments() []Segment { return p.segments }

// ParsePath parses expressions of the form "a.b[2].c" or "a.b[key]".
// Surrounding whitespace is ignored; an empty expression selects the root.
func ParsePath(expr string) (Path, error) {
	p := Path{expr: expr}
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return p, nil
	}

	for _, raw := range strings.Split(trimmed, ".") {
		seg, err := parseSegment(raw)
		if err != nil {
			return Path{}, &ResolveError{Path: expr, Segment: raw, Err: err}
		}
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

func parseSegment(raw string) (Segment, error) {
	open := strings.IndexByte(raw, '[')
	if open < 0 {
		if raw == "" {
			return Segment{}, fmt.Errorf("empty segment")
		}
		if strings.ContainsRune(raw, ']') {
			return Segment{}, fmt.Errorf("unbalanced ']'")
		}
		return Segment{Name: raw}, nil
	}
	if !strings.HasSuffix(raw, "]") {
		return Segment{}, fmt.Errorf("selector must close the segment")
	}
	name := raw[:open]
	sel := raw[open+1 : len(raw)-1]
	if name == "" {
		return Segment{}, fmt.Errorf("selector without property name")
	}
	if sel == "" || strings.ContainsAny(sel, "[]") {
		return Segment{}, fmt.Errorf("malformed selector %q", sel)
	}
	return Segment{Name: name, Selector: sel, HasSel: true}, nil
}

// Resolve follows p from root.
func (p Path) Resolve(root *Value) (*Value, error) {
	cur := root
	for _, seg := range p.segments {
		next, err := step(cur, seg)
		if err != nil {
			return nil, &ResolveError{Path: p.expr, Segment: seg.String(), Err: err}
		}
		cur = next
	}
	if cur == nil {
		cur = NullValue()
	}
	return cur, nil
}

func step(cur *Value, seg Segment) (*Value, error) {
	if cur.Kind() != Object {
		return nil, fmt.Errorf("cannot look up %q in %s", seg.Name, describe(cur))
	}
	prop, ok := cur.Get(seg.Name)
	if !ok {
		return nil, fmt.Errorf("property %q not found", seg.Name)
	}
	if !seg.HasSel {
		return prop, nil
	}

	if prop.Kind() == Array {
		if idx, err := strconv.Atoi(seg.Selector); err == nil {
			item, ok := prop.Index(idx)
			if !ok {
				return nil, fmt.Errorf("index was %d, but %d elements were present", idx, prop.Len())
			}
			return item, nil
		}
	}
	if sub, ok := prop.Get(seg.Selector); ok {
		return sub, nil
	}
	return nil, fmt.Errorf("invalid index %s for property %s", seg.Selector, seg.Name)
}
