package schema

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for the semantic checks applied by Validate.
var (
	ErrMissingRoot  = errors.New("schema: payload has no root node")
	ErrMissingType  = errors.New("schema: node has no type")
	ErrUnknownType  = errors.New("schema: unknown node type")
	ErrUnknownEnum  = errors.New("schema: unknown enum value")
	ErrColorRange   = errors.New("schema: color component out of range")
	ErrInvalidSpan  = errors.New("schema: cell span must be positive")
	ErrMisplacedRow = errors.New("schema: row outside table")
)

// NodeError reports a semantic problem at a specific node, identified by its
// JSON path (e.g. "root.children[2].style").
type NodeError struct {
	Path string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

func nodeErr(path string, err error) *NodeError {
	return &NodeError{Path: path, Err: err}
}

// Validate checks the payload's semantics: known node types and enum values,
// in-range colors, non-negative spans (zero means unset), rows only inside tables and cells only
// inside rows. The first violation is returned as a *NodeError; a valid
// payload returns nil.
func Validate(p *Payload) error {
	if p == nil || p.Root == nil {
		return nodeErr("root", ErrMissingRoot)
	}
	return validateNode(p.Root, "root", "")
}

func validateNode(n *Node, path string, parent NodeType) error {
	if n.Type == "" {
		return nodeErr(path, ErrMissingType)
	}
	if !n.Type.valid() {
		return nodeErr(path, fmt.Errorf("%w %q", ErrUnknownType, n.Type))
	}
	switch n.Type {
	case Row:
		if parent != Table {
			return nodeErr(path, ErrMisplacedRow)
		}
	case Cell:
		if parent != Row {
			return nodeErr(path, fmt.Errorf("schema: cell outside row"))
		}
		if n.ColSpan < 0 || n.RowSpan < 0 {
			return nodeErr(path, ErrInvalidSpan)
		}
	}
	if n.Style != nil {
		if err := validateStyle(n.Style, path+".style"); err != nil {
			return err
		}
	}
	for i, child := range n.Children {
		childPath := path + ".children[" + strconv.Itoa(i) + "]"
		if err := validateNode(child, childPath, n.Type); err != nil {
			return err
		}
	}
	return nil
}

func validateStyle(s *Style, path string) error {
	enums := []struct {
		name string
		ok   bool
	}{
		{"position", s.Position == nil || oneOf(*s.Position, Static, Relative, Absolute)},
		{"direction", s.Direction == nil || oneOf(*s.Direction, DirRow, DirColumn)},
		{"mainAlign", s.MainAlign == nil || oneOf(*s.MainAlign, MainStart, MainCenter, MainEnd, MainSpaceBetween, MainSpaceAround, MainSpaceEvenly)},
		{"crossAlign", s.CrossAlign == nil || oneOf(*s.CrossAlign, CrossStart, CrossCenter, CrossEnd, CrossStretch)},
		{"textAlign", s.TextAlign == nil || oneOf(*s.TextAlign, AlignLeft, AlignCenter, AlignRight, AlignJustify)},
		{"fontWeight", s.FontWeight == nil || oneOf(*s.FontWeight, WeightNormal, WeightBold)},
		{"fontStyle", s.FontStyle == nil || oneOf(*s.FontStyle, StyleNormal, StyleItalic)},
		{"objectFit", s.ObjectFit == nil || oneOf(*s.ObjectFit, FitCover, FitContain, FitFill, FitNone, FitScaleDown)},
	}
	for _, e := range enums {
		if !e.ok {
			return nodeErr(path+"."+e.name, ErrUnknownEnum)
		}
	}

	colors := []struct {
		name string
		c    *Color
	}{
		{"color", s.Color},
		{"backgroundColor", s.BackgroundColor},
		{"borderColor", s.BorderColor},
		{"borderTopColor", s.BorderTopColor},
		{"borderRightColor", s.BorderRightColor},
		{"borderBottomColor", s.BorderBottomColor},
		{"borderLeftColor", s.BorderLeftColor},
	}
	for _, c := range colors {
		if c.c != nil && !c.c.valid() {
			return nodeErr(path+"."+c.name, ErrColorRange)
		}
	}
	return nil
}

func oneOf[T comparable](v T, allowed ...T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
