// Package scale parses the named image transforms used when linking to an
// image rendition, e.g. "block(270,203)" or "width(600)".
package scale

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tendant/simple-site/pkg/site"
)

// Kind names a transform.
type Kind string

const (
	KindBlock  Kind = "block"
	KindWidth  Kind = "width"
	KindHeight Kind = "height"
	KindSquare Kind = "square"
	KindMax    Kind = "max"
	KindFull   Kind = "full"
)

// arity is the number of integer arguments each kind takes.
var arity = map[Kind]int{
	KindBlock:  2,
	KindWidth:  1,
	KindHeight: 1,
	KindSquare: 1,
	KindMax:    1,
	KindFull:   0,
}

// Scale is a parsed transform.
type Scale struct {
	Kind Kind
	Args []int
}

// Parse reads an expression such as "block(270,203)". The path form
// produced by Scale.Path ("block-270-203") is accepted as well.
func Parse(expr string) (Scale, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Scale{}, fmt.Errorf("%w: empty expression", site.ErrInvalidScale)
	}

	var name, rawArgs string
	switch {
	case strings.Contains(expr, "("):
		open := strings.Index(expr, "(")
		if !strings.HasSuffix(expr, ")") {
			return Scale{}, fmt.Errorf("%w: %q", site.ErrInvalidScale, expr)
		}
		name = expr[:open]
		rawArgs = expr[open+1 : len(expr)-1]
	case strings.Contains(expr, "-"):
		parts := strings.SplitN(expr, "-", 2)
		name = parts[0]
		rawArgs = strings.ReplaceAll(parts[1], "-", ",")
	default:
		name = expr
	}

	kind := Kind(strings.ToLower(strings.TrimSpace(name)))
	want, ok := arity[kind]
	if !ok {
		return Scale{}, fmt.Errorf("%w: unknown transform %q", site.ErrInvalidScale, name)
	}

	var args []int
	if strings.TrimSpace(rawArgs) != "" {
		for _, raw := range strings.Split(rawArgs, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil || n <= 0 {
				return Scale{}, fmt.Errorf("%w: bad argument %q in %q", site.ErrInvalidScale, raw, expr)
			}
			args = append(args, n)
		}
	}
	if len(args) != want {
		return Scale{}, fmt.Errorf("%w: %s takes %d arguments, got %d", site.ErrInvalidScale, kind, want, len(args))
	}

	return Scale{Kind: kind, Args: args}, nil
}

// MustParse is like Parse but panics on error. Meant for package-level presets.
func MustParse(expr string) Scale {
	s, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return s
}

// String formats the scale as an expression, e.g. "block(270,203)".
func (s Scale) String() string {
	if len(s.Args) == 0 {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s(%s)", s.Kind, joinInts(s.Args, ","))
}

// Path formats the scale for use in a URL path segment, e.g. "block-270-203".
func (s Scale) Path() string {
	if len(s.Args) == 0 {
		return string(s.Kind)
	}
	return string(s.Kind) + "-" + joinInts(s.Args, "-")
}

func joinInts(ns []int, sep string) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, sep)
}
