// Package certificate binds registrant data onto positioned template fields
// and renders the result as a single-page PDF.
package certificate

import (
	"strings"

	id "symposia/pkg/domain"
)

// Unit is the length unit template coordinates are authored in. Everything
// is converted to points before drawing.
type Unit string

const (
	UnitPoint      Unit = "pt"
	UnitMillimeter Unit = "mm"
	UnitCentimeter Unit = "cm"
)

// ToPoints converts a coordinate in this unit to PDF points (1/72 inch).
// Unknown units are treated as points.
func (u Unit) ToPoints(v float64) float64 {
	switch u {
	case UnitMillimeter:
		return v * 72.0 / 25.4
	case UnitCentimeter:
		return v * 72.0 / 2.54
	default:
		return v
	}
}

// Align positions text relative to the field anchor.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Source is what a template field renders. It is a closed union: Static,
// Path or Composite. Expressions are parsed once when the template is
// loaded; resolution (see binding.go) is an exhaustive switch and never
// fails.
type Source interface {
	isSource()
}

// Static is literal text.
type Static struct {
	Text string
}

// Path is a dotted lookup into the render context, e.g.
// "Registration.personalInfo.firstName". Root selects the entity; the
// remaining segments walk its fields.
type Path struct {
	Root     string
	Segments []string
}

// Composite is a named derived value assembled from several fields, e.g.
// the registrant's full name or the joined author list.
type Composite struct {
	Name string
}

func (Static) isSource()    {}
func (Path) isSource()      {}
func (Composite) isSource() {}

// Composite names recognized by the binder.
const (
	CompositeFullName   = "Registration.personalInfo.fullName"
	CompositeAuthorList = "Abstract.authorList"
)

const staticPrefix = "static:"

// ParseSource classifies a stored field expression. Anything that is not a
// static literal or a known composite is a path; a path with no dot is a
// bare root and resolves to empty.
func ParseSource(expression string) Source {
	if strings.HasPrefix(expression, staticPrefix) {
		return Static{Text: expression[len(staticPrefix):]}
	}
	switch expression {
	case CompositeFullName, CompositeAuthorList:
		return Composite{Name: expression}
	}
	parts := strings.Split(expression, ".")
	return Path{Root: parts[0], Segments: parts[1:]}
}

// Field is one positioned text element on the page. X and Y are in the
// template's unit, measured from the top-left corner.
type Field struct {
	Source   Source
	X        float64
	Y        float64
	Font     string
	Size     float64
	Color    string
	Align    Align
	Rotation float64
	// MaxWidth truncates rendering width when positive; zero means
	// unbounded. Same unit as X/Y.
	MaxWidth float64
}

// Template is a stored certificate layout for one event.
type Template struct {
	ID      id.TemplateID
	EventID id.EventID
	Name    string
	Unit    Unit
	// Background is the asset filename of the full-page backdrop, resolved
	// against the configured asset directory. Empty means no backdrop.
	Background string
	Fields     []Field
}
