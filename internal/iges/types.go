package iges

import "fmt"

// Entity type numbers (IGES 5.3, table 3). Only the ones the trimmed-surface
// pipeline decodes get their own struct; everything else becomes Generic.
const (
	TypeCircularArc          = 100
	TypeCompositeCurve       = 102
	TypeConicArc             = 104
	TypePlane                = 108
	TypeLine                 = 110
	TypeParametricSpline     = 112
	TypeSplineSurface        = 114
	TypePoint                = 116
	TypeRuledSurface         = 118
	TypeSurfaceOfRevolution  = 120
	TypeTabulatedCylinder    = 122
	TypeTransformationMatrix = 124
	TypeRationalBSplineCurve = 126
	TypeRationalBSplineSurf  = 128
	TypeBoundary             = 141
	TypeParametricCurve      = 142
	TypeBoundedSurface       = 143
	TypeTrimmedSurface       = 144
	TypeBlock                = 150
	TypeManifoldSolid        = 186
	TypeGeneralNote          = 212
	TypeProperty             = 406
)

var typeNames = map[int]string{
	TypeCircularArc:          "circular arc",
	TypeCompositeCurve:       "composite curve",
	TypeConicArc:             "conic arc",
	TypePlane:                "plane",
	TypeLine:                 "line",
	TypeParametricSpline:     "parametric spline curve",
	TypeSplineSurface:        "parametric spline surface",
	TypePoint:                "point",
	TypeRuledSurface:         "ruled surface",
	TypeSurfaceOfRevolution:  "surface of revolution",
	TypeTabulatedCylinder:    "tabulated cylinder",
	TypeTransformationMatrix: "transformation matrix",
	TypeRationalBSplineCurve: "rational b-spline curve",
	TypeRationalBSplineSurf:  "rational b-spline surface",
	TypeBoundary:             "boundary",
	TypeParametricCurve:      "curve on parametric surface",
	TypeBoundedSurface:       "bounded surface",
	TypeTrimmedSurface:       "trimmed surface",
	TypeBlock:                "block",
	TypeManifoldSolid:        "manifold solid b-rep",
	TypeGeneralNote:          "general note",
	TypeProperty:             "property",
}

// TypeName returns a readable name for an entity type number.
func TypeName(code int) string {
	if n, ok := typeNames[code]; ok {
		return n
	}
	return fmt.Sprintf("type %d", code)
}

// Status is the directory entry status number split into its four
// two-digit fields.
type Status struct {
	Blank       int // 0 visible, 1 blanked
	Subordinate int // 0 independent, 1 physically, 2 logically, 3 both
	Use         int // 0 geometry, 5 2D parametric, ...
	Hierarchy   int
}

// Directory holds the fixed-width directory entry shared by every entity.
type Directory struct {
	Type           int
	ParamPointer   int
	Structure      int
	LineFont       int
	Level          int
	View           int
	Transform      int
	LabelAssoc     int
	Status         Status
	Seq            int // directory sequence number, the entity's identity
	LineWeight     int
	Color          int
	ParamLineCount int
	Form           int
	Label          string
	Subscript      int
}

// Header returns the directory entry. Embedding Directory gives every
// entity this method.
func (d *Directory) Header() *Directory { return d }

// Entity is one decoded directory/parameter pair.
type Entity interface {
	Header() *Directory
	// Decode fills the entity from its parameter tokens. Token 0 is the
	// entity type number.
	Decode(params []string) error
}

// newEntity maps a type number to its entity struct. Unsupported types get a
// header-only Generic.
func newEntity(code int) Entity {
	switch code {
	case TypeLine:
		return &Line{}
	case TypeCompositeCurve:
		return &CompositeCurve{}
	case TypeRationalBSplineCurve:
		return &RationalBSplineCurve{}
	case TypeRationalBSplineSurf:
		return &RationalBSplineSurface{}
	case TypeBoundary:
		return &Boundary{}
	case TypeParametricCurve:
		return &ParametricCurve{}
	case TypeBoundedSurface:
		return &BoundedSurface{}
	case TypeTrimmedSurface:
		return &TrimmedSurface{}
	case TypeTransformationMatrix:
		return &TransformationMatrix{}
	default:
		return &Generic{}
	}
}
