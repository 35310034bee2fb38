// Package schema defines the JSON document model accepted by the layout
// engine: a tree of typed nodes carrying style attributes.
//
// The model is deliberately flat and declarative. Every node has a type, an
// optional style and optional children; type-specific fields (text content,
// image source, table column widths, cell spans) sit directly on the node.
// Unknown keys are ignored during decoding.
package schema

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NodeType discriminates the node variants.
type NodeType string

const (
	Page  NodeType = "page"
	View  NodeType = "view"
	Text  NodeType = "text"
	Image NodeType = "image"
	Svg   NodeType = "svg"
	Table NodeType = "table"
	Row   NodeType = "row"
	Cell  NodeType = "cell"
)

func (t NodeType) valid() bool {
	switch t {
	case Page, View, Text, Image, Svg, Table, Row, Cell:
		return true
	}
	return false
}

// Direction is the main axis of a flex container.
type Direction string

const (
	DirRow    Direction = "row"
	DirColumn Direction = "column"
)

// MainAlign is the main-axis alignment of a flex container (justify-content).
type MainAlign string

const (
	MainStart        MainAlign = "start"
	MainCenter       MainAlign = "center"
	MainEnd          MainAlign = "end"
	MainSpaceBetween MainAlign = "space-between"
	MainSpaceAround  MainAlign = "space-around"
	MainSpaceEvenly  MainAlign = "space-evenly"
)

// CrossAlign is the cross-axis alignment of a flex container (align-items).
type CrossAlign string

const (
	CrossStart   CrossAlign = "start"
	CrossCenter  CrossAlign = "center"
	CrossEnd     CrossAlign = "end"
	CrossStretch CrossAlign = "stretch"
)

// Position selects the positioning scheme of a box.
type Position string

const (
	Static   Position = "static"
	Relative Position = "relative"
	Absolute Position = "absolute"
)

// TextAlign is the horizontal alignment of text lines within a text box.
type TextAlign string

const (
	AlignLeft    TextAlign = "left"
	AlignCenter  TextAlign = "center"
	AlignRight   TextAlign = "right"
	AlignJustify TextAlign = "justify"
)

// FontWeight is the weight of a text run.
type FontWeight string

const (
	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"
)

// FontStyle is the slant of a text run.
type FontStyle string

const (
	StyleNormal FontStyle = "normal"
	StyleItalic FontStyle = "italic"
)

// ObjectFit controls how image content is fitted into its box.
type ObjectFit string

const (
	FitCover     ObjectFit = "cover"
	FitContain   ObjectFit = "contain"
	FitFill      ObjectFit = "fill"
	FitNone      ObjectFit = "none"
	FitScaleDown ObjectFit = "scale-down"
)

// Node is one element of the document tree. Nodes are immutable once
// decoded; the layout engine never writes back into them.
type Node struct {
	Type     NodeType `json:"type"`
	Style    *Style   `json:"style,omitempty"`
	Children []*Node  `json:"children,omitempty"`

	// Text content for text nodes.
	Text string `json:"text,omitempty"`

	// Image/SVG source: URL, data URI or file path. SVG nodes may carry
	// inline markup in Content instead.
	Src     string `json:"src,omitempty"`
	Content string `json:"content,omitempty"`

	// Table column definitions: fixed points, percentages or "auto".
	ColumnWidths []Dimension `json:"columnWidths,omitempty"`

	// Cell spans. Zero means unset and defaults to 1.
	ColSpan int `json:"colSpan,omitempty"`
	RowSpan int `json:"rowSpan,omitempty"`
}

// Payload is the request envelope: a single required root node.
type Payload struct {
	Root *Node `json:"root"`
}

// Decode parses a JSON payload. Structural errors (malformed JSON, wrong
// value kinds) surface here; semantic checks live in Validate.
func Decode(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
