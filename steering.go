package brane

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SteeringProfile is the constraint and permission set for the geometry
// engine. It is a value object: the zero value is not valid, build one with
// DefaultSteering, NewSteeringProfile or SteeringFromMap. All cross-field
// invariants are checked at construction so a profile that exists is safe
// to generate from.
type SteeringProfile struct {
	allowed     familySet
	force       TopologyFamily
	forced      bool
	phase       PhaseBehavior
	orientation OrientationRule
	boundary    BoundaryCondition
	dim         Dimensionality
	ignored     []string
}

type familySet uint16

func (s familySet) has(f TopologyFamily) bool { return f.valid() && s&(1<<uint(f)) != 0 }
func (s familySet) with(f TopologyFamily) familySet { return s | 1<<uint(f) }

func setOf(families ...TopologyFamily) familySet {
	var s familySet
	for _, f := range families {
		s = s.with(f)
	}
	return s
}

var defaultAllowed = setOf(PlanarRelief, Toroidal, Spheroid, Helical)

// SteeringOption configures a SteeringProfile under construction.
type SteeringOption func(*SteeringProfile) error

// DefaultSteering returns the default profile: planar, toroidal, spheroid
// and helical families allowed, no forced family, static phase, preserved
// orientation, closed-loop boundary in 3D.
func DefaultSteering() SteeringProfile {
	return SteeringProfile{
		allowed:     defaultAllowed,
		phase:       Static,
		orientation: Preserve,
		boundary:    ClosedLoop,
		dim:         Dim3D,
	}
}

// NewSteeringProfile builds a profile from the defaults and the options given.
// It returns a *ConfigurationError if the result violates an invariant.
func NewSteeringProfile(opts ...SteeringOption) (SteeringProfile, error) {
	sp := DefaultSteering()
	for _, opt := range opts {
		if err := opt(&sp); err != nil {
			return SteeringProfile{}, err
		}
	}
	if err := sp.validate(); err != nil {
		return SteeringProfile{}, err
	}
	return sp, nil
}

// MustSteering is like NewSteeringProfile but panics on error.
func MustSteering(opts ...SteeringOption) SteeringProfile {
	sp, err := NewSteeringProfile(opts...)
	if err != nil {
		panic(err)
	}
	return sp
}

// WithAllowedFamilies replaces the allowed family set.
func WithAllowedFamilies(families ...TopologyFamily) SteeringOption {
	return func(sp *SteeringProfile) error {
		for _, f := range families {
			if !f.valid() {
				return &ConfigurationError{Field: "allowed_families", Reason: fmt.Sprintf("invalid family %d", int(f))}
			}
		}
		sp.allowed = setOf(families...)
		return nil
	}
}

// WithForceFamily forces the analyzer result. The family must be allowed.
func WithForceFamily(f TopologyFamily) SteeringOption {
	return func(sp *SteeringProfile) error {
		if !f.valid() {
			return &ConfigurationError{Field: "force_family", Reason: fmt.Sprintf("invalid family %d", int(f))}
		}
		sp.force, sp.forced = f, true
		return nil
	}
}

func WithPhaseBehavior(p PhaseBehavior) SteeringOption {
	return func(sp *SteeringProfile) error {
		if p < Static || p > Quantized {
			return &ConfigurationError{Field: "phase_behavior", Reason: fmt.Sprintf("invalid value %d", int(p))}
		}
		sp.phase = p
		return nil
	}
}

func WithOrientationRule(o OrientationRule) SteeringOption {
	return func(sp *SteeringProfile) error {
		if o < Preserve || o > MobiusTwist {
			return &ConfigurationError{Field: "orientation_rule", Reason: fmt.Sprintf("invalid value %d", int(o))}
		}
		sp.orientation = o
		return nil
	}
}

func WithBoundaryCondition(b BoundaryCondition) SteeringOption {
	return func(sp *SteeringProfile) error {
		if b < Open || b > Compactified {
			return &ConfigurationError{Field: "boundary_condition", Reason: fmt.Sprintf("invalid value %d", int(b))}
		}
		sp.boundary = b
		return nil
	}
}

func WithDimensionality(d Dimensionality) SteeringOption {
	return func(sp *SteeringProfile) error {
		if d < Dim3D || d > Pseudo4D {
			return &ConfigurationError{Field: "dimensionality", Reason: fmt.Sprintf("invalid value %d", int(d))}
		}
		sp.dim = d
		return nil
	}
}

// validate is the single point where the profile invariants are enforced.
func (sp SteeringProfile) validate() error {
	if !sp.forced {
		return nil
	}
	// Checked first: a Klein bottle with preserved orientation is rejected
	// whether or not it was added to the allowed set.
	if sp.force == KleinBottle && sp.orientation == Preserve {
		return &ConfigurationError{
			Field:  "force_family",
			Reason: "KLEIN_BOTTLE cannot be produced when orientation_rule == PRESERVE",
		}
	}
	if !sp.allowed.has(sp.force) {
		return &ConfigurationError{
			Field:  "force_family",
			Reason: fmt.Sprintf("%s must be in allowed_families", sp.force),
		}
	}
	return nil
}

// AllowedFamilies returns the allowed families in declaration order.
func (sp SteeringProfile) AllowedFamilies() []TopologyFamily {
	var out []TopologyFamily
	for _, f := range Families() {
		if sp.allowed.has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Allows reports whether f is a member of the allowed families.
func (sp SteeringProfile) Allows(f TopologyFamily) bool { return sp.allowed.has(f) }

// ForceFamily returns the forced family and true if one is set.
func (sp SteeringProfile) ForceFamily() (TopologyFamily, bool) { return sp.force, sp.forced }

func (sp SteeringProfile) PhaseBehavior() PhaseBehavior         { return sp.phase }
func (sp SteeringProfile) OrientationRule() OrientationRule     { return sp.orientation }
func (sp SteeringProfile) BoundaryCondition() BoundaryCondition { return sp.boundary }
func (sp SteeringProfile) Dimensionality() Dimensionality       { return sp.dim }

// IgnoredKeys lists the unrecognised keys dropped by SteeringFromMap, sorted.
func (sp SteeringProfile) IgnoredKeys() []string {
	return append([]string(nil), sp.ignored...)
}

func (sp SteeringProfile) String() string {
	var b strings.Builder
	b.WriteString("steering{allowed=[")
	for i, f := range sp.AllowedFamilies() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.String())
	}
	b.WriteString("]")
	if sp.forced {
		fmt.Fprintf(&b, " force=%s", sp.force)
	}
	fmt.Fprintf(&b, " phase=%s orientation=%s boundary=%s dim=%s}", sp.phase, sp.orientation, sp.boundary, sp.dim)
	return b.String()
}

// Steering option keys recognised by SteeringFromMap.
const (
	KeyAllowedFamilies   = "allowed_families"
	KeyForceFamily       = "force_family"
	KeyPhaseBehavior     = "phase_behavior"
	KeyOrientationRule   = "orientation_rule"
	KeyBoundaryCondition = "boundary_condition"
	KeyDimensionality    = "dimensionality"
)

// SteeringFromMap builds a profile from a loosely typed mapping such as a
// decoded JSON or YAML document. Values may be the Go enum values or their
// text forms. Unknown keys are ignored and reported by IgnoredKeys.
// A nil force_family means no forced family.
func SteeringFromMap(m map[string]interface{}) (SteeringProfile, error) {
	var opts []SteeringOption
	var ignored []string
	for key, val := range m {
		var opt SteeringOption
		var err error
		switch key {
		case KeyAllowedFamilies:
			var fams []TopologyFamily
			fams, err = familiesFrom(val)
			opt = WithAllowedFamilies(fams...)
		case KeyForceFamily:
			if val == nil {
				continue
			}
			var f TopologyFamily
			f, err = familyFrom(val)
			opt = WithForceFamily(f)
		case KeyPhaseBehavior:
			var p PhaseBehavior
			p, err = enumFrom(val, ParsePhaseBehavior)
			opt = WithPhaseBehavior(p)
		case KeyOrientationRule:
			var o OrientationRule
			o, err = enumFrom(val, ParseOrientationRule)
			opt = WithOrientationRule(o)
		case KeyBoundaryCondition:
			var b BoundaryCondition
			b, err = enumFrom(val, ParseBoundaryCondition)
			opt = WithBoundaryCondition(b)
		case KeyDimensionality:
			var d Dimensionality
			d, err = enumFrom(val, ParseDimensionality)
			opt = WithDimensionality(d)
		default:
			ignored = append(ignored, key)
			continue
		}
		if err != nil {
			return SteeringProfile{}, &ConfigurationError{Field: key, Reason: err.Error()}
		}
		opts = append(opts, opt)
	}
	sp, err := NewSteeringProfile(opts...)
	if err != nil {
		return SteeringProfile{}, err
	}
	sort.Strings(ignored)
	sp.ignored = ignored
	return sp, nil
}

// ParseSteeringYAML decodes a YAML mapping and builds a profile with SteeringFromMap.
// An empty document yields the default profile.
func ParseSteeringYAML(data []byte) (SteeringProfile, error) {
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return SteeringProfile{}, &ConfigurationError{Reason: "decoding yaml: " + err.Error()}
	}
	return SteeringFromMap(m)
}

// UnmarshalYAML allows a profile to be embedded in a larger YAML document.
func (sp *SteeringProfile) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]interface{}
	if err := node.Decode(&m); err != nil {
		return &ConfigurationError{Reason: "decoding yaml: " + err.Error()}
	}
	v, err := SteeringFromMap(m)
	if err != nil {
		return err
	}
	*sp = v
	return nil
}

// MarshalYAML emits the profile using the SteeringFromMap keys.
func (sp SteeringProfile) MarshalYAML() (interface{}, error) {
	return sp.Map(), nil
}

// Map returns the profile as a mapping accepted by SteeringFromMap.
func (sp SteeringProfile) Map() map[string]interface{} {
	var allowed []string
	for _, f := range sp.AllowedFamilies() {
		allowed = append(allowed, f.String())
	}
	m := map[string]interface{}{
		KeyAllowedFamilies:   allowed,
		KeyPhaseBehavior:     sp.phase.String(),
		KeyOrientationRule:   sp.orientation.String(),
		KeyBoundaryCondition: sp.boundary.String(),
		KeyDimensionality:    sp.dim.String(),
	}
	if sp.forced {
		m[KeyForceFamily] = sp.force.String()
	}
	return m
}

func familyFrom(v interface{}) (TopologyFamily, error) {
	switch x := v.(type) {
	case TopologyFamily:
		return x, nil
	case string:
		return ParseTopologyFamily(x)
	case fmt.Stringer:
		return ParseTopologyFamily(x.String())
	}
	return 0, fmt.Errorf("expected family name, got %T", v)
}

func familiesFrom(v interface{}) ([]TopologyFamily, error) {
	switch x := v.(type) {
	case []TopologyFamily:
		return x, nil
	case []string:
		out := make([]TopologyFamily, 0, len(x))
		for _, s := range x {
			f, err := ParseTopologyFamily(s)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	case []interface{}:
		out := make([]TopologyFamily, 0, len(x))
		for _, e := range x {
			f, err := familyFrom(e)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected list of families, got %T", v)
}

// enumFrom accepts either an already typed enum value or its text form.
func enumFrom[T ~int](v interface{}, parse func(string) (T, error)) (T, error) {
	switch x := v.(type) {
	case T:
		return x, nil
	case string:
		return parse(x)
	case fmt.Stringer:
		return parse(x.String())
	}
	var zero T
	return zero, fmt.Errorf("expected %T or string, got %T", zero, v)
}
