package brane

import (
	"fmt"
	"strings"
)

// TopologyFamily is the qualitative class of 3D manifold a pattern is mapped onto.
// Families are declared in the order the analyzer evaluates them, which is
// also the tie-break order when two families score identically.
type TopologyFamily int

const (
	PlanarRelief TopologyFamily = iota
	Toroidal
	Spheroid
	Helical
	LatticeResonator
	CompactifiedFolded
	// KleinBottle is non-orientable. It is never chosen automatically and
	// can only be forced when the orientation rule is not Preserve.
	KleinBottle

	numFamilies = iota
)

// NumFamilies is the number of topology families.
const NumFamilies = numFamilies

var familyNames = [numFamilies]string{
	PlanarRelief:       "planar_relief",
	Toroidal:           "toroidal",
	Spheroid:           "spheroid",
	Helical:            "helical",
	LatticeResonator:   "lattice_resonator",
	CompactifiedFolded: "compactified",
	KleinBottle:        "klein_bottle",
}

// Families returns all topology families in declaration order.
func Families() []TopologyFamily {
	f := make([]TopologyFamily, numFamilies)
	for i := range f {
		f[i] = TopologyFamily(i)
	}
	return f
}

func (f TopologyFamily) String() string {
	if !f.valid() {
		return fmt.Sprintf("TopologyFamily(%d)", int(f))
	}
	return familyNames[f]
}

func (f TopologyFamily) valid() bool { return f >= 0 && int(f) < numFamilies }

// Orientable reports whether surfaces of the family admit a consistent outward normal.
func (f TopologyFamily) Orientable() bool { return f != KleinBottle }

// ParseTopologyFamily parses the text form of a family. Matching is case
// insensitive and accepts the upper snake case enum names as well,
// i.e. "TOROIDAL" and "toroidal" are equivalent.
func ParseTopologyFamily(s string) (TopologyFamily, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "compactified_folded" {
		return CompactifiedFolded, nil
	}
	for i, name := range familyNames {
		if name == key {
			return TopologyFamily(i), nil
		}
	}
	return 0, fmt.Errorf("unknown topology family %q", s)
}

func (f TopologyFamily) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("invalid topology family %d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *TopologyFamily) UnmarshalText(b []byte) error {
	v, err := ParseTopologyFamily(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// PhaseBehavior describes how the phase of the pattern behaves over the geometry.
type PhaseBehavior int

const (
	// Static fixes the phase to surface coordinates.
	Static PhaseBehavior = iota
	// Flowing implies a directional twist applied after generation.
	Flowing
	// Quantized snaps vertex positions to a discrete grid.
	Quantized
)

// OrientationRule governs surface normal orientation.
type OrientationRule int

const (
	// Preserve requires a strict two-sided orientable surface.
	Preserve OrientationRule = iota
	AllowFlip
	MobiusTwist
)

// BoundaryCondition is the edge behaviour of the manifold.
type BoundaryCondition int

const (
	Open BoundaryCondition = iota
	// ClosedLoop stitches parametric seams.
	ClosedLoop
	Compactified
)

// Dimensionality is the embedding target dimension.
type Dimensionality int

const (
	Dim3D Dimensionality = iota
	Pseudo4D
)

var (
	phaseNames       = []string{Static: "static", Flowing: "flowing", Quantized: "quantized"}
	orientationNames = []string{Preserve: "preserve", AllowFlip: "allow_flip", MobiusTwist: "mobius_twist"}
	boundaryNames    = []string{Open: "open", ClosedLoop: "closed_loop", Compactified: "compactified"}
	dimensionNames   = []string{Dim3D: "3d", Pseudo4D: "pseudo_4d"}
)

func enumString(names []string, v int, kind string) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, v)
	}
	return names[v]
}

func enumParse(names []string, s, kind string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

func (p PhaseBehavior) String() string { return enumString(phaseNames, int(p), "PhaseBehavior") }

func (o OrientationRule) String() string {
	return enumString(orientationNames, int(o), "OrientationRule")
}

func (b BoundaryCondition) String() string {
	return enumString(boundaryNames, int(b), "BoundaryCondition")
}

func (d Dimensionality) String() string {
	return enumString(dimensionNames, int(d), "Dimensionality")
}

// ParsePhaseBehavior parses "static", "flowing" or "quantized".
func ParsePhaseBehavior(s string) (PhaseBehavior, error) {
	v, err := enumParse(phaseNames, s, "phase behavior")
	return PhaseBehavior(v), err
}

// ParseOrientationRule parses "preserve", "allow_flip" or "mobius_twist".
func ParseOrientationRule(s string) (OrientationRule, error) {
	v, err := enumParse(orientationNames, s, "orientation rule")
	return OrientationRule(v), err
}

// ParseBoundaryCondition parses "open", "closed_loop" or "compactified".
func ParseBoundaryCondition(s string) (BoundaryCondition, error) {
	v, err := enumParse(boundaryNames, s, "boundary condition")
	return BoundaryCondition(v), err
}

// ParseDimensionality parses "3d" or "pseudo_4d".
func ParseDimensionality(s string) (Dimensionality, error) {
	v, err := enumParse(dimensionNames, s, "dimensionality")
	return Dimensionality(v), err
}
