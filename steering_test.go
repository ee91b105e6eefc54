package brane

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultSteering(t *testing.T) {
	sp := DefaultSteering()
	require.Equal(t, []TopologyFamily{PlanarRelief, Toroidal, Spheroid, Helical}, sp.AllowedFamilies())
	_, forced := sp.ForceFamily()
	require.False(t, forced)
	require.Equal(t, Static, sp.PhaseBehavior())
	require.Equal(t, Preserve, sp.OrientationRule())
	require.Equal(t, ClosedLoop, sp.BoundaryCondition())
	require.Equal(t, Dim3D, sp.Dimensionality())
	require.Empty(t, sp.IgnoredKeys())

	built, err := NewSteeringProfile()
	require.NoError(t, err)
	require.Equal(t, sp, built)
}

func TestSteeringInvariants(t *testing.T) {
	for _, test := range []struct {
		name string
		opts []SteeringOption
		ok   bool
	}{
		{"force allowed", []SteeringOption{WithForceFamily(Toroidal)}, true},
		{"force not allowed", []SteeringOption{WithForceFamily(LatticeResonator)}, false},
		{"force added", []SteeringOption{WithAllowedFamilies(LatticeResonator), WithForceFamily(LatticeResonator)}, true},
		{"klein preserve", []SteeringOption{WithAllowedFamilies(KleinBottle), WithForceFamily(KleinBottle)}, false},
		{"klein preserve not allowed", []SteeringOption{WithForceFamily(KleinBottle)}, false},
		{"klein flip", []SteeringOption{
			WithAllowedFamilies(KleinBottle), WithForceFamily(KleinBottle), WithOrientationRule(AllowFlip),
		}, true},
		{"klein mobius", []SteeringOption{
			WithAllowedFamilies(KleinBottle), WithForceFamily(KleinBottle), WithOrientationRule(MobiusTwist),
		}, true},
		{"invalid family", []SteeringOption{WithAllowedFamilies(TopologyFamily(42))}, false},
		{"invalid phase", []SteeringOption{WithPhaseBehavior(PhaseBehavior(9))}, false},
		{"invalid boundary", []SteeringOption{WithBoundaryCondition(BoundaryCondition(-1))}, false},
		{"invalid dimensionality", []SteeringOption{WithDimensionality(Dimensionality(2))}, false},
		{"empty allowed", []SteeringOption{WithAllowedFamilies()}, true},
	} {
		t.Run(test.name, func(t *testing.T) {
			sp, err := NewSteeringProfile(test.opts...)
			if !test.ok {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrConfiguration))
				var cerr *ConfigurationError
				require.ErrorAs(t, err, &cerr)
				return
			}
			require.NoError(t, err)
			if f, forced := sp.ForceFamily(); forced {
				require.True(t, sp.Allows(f))
				require.False(t, f == KleinBottle && sp.OrientationRule() == Preserve)
			}
		})
	}
}

func TestKleinPreserveReason(t *testing.T) {
	_, err := NewSteeringProfile(WithAllowedFamilies(KleinBottle), WithForceFamily(KleinBottle))
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "force_family", cerr.Field)
	require.Contains(t, cerr.Reason, "PRESERVE")
}

func TestMustSteeringPanics(t *testing.T) {
	require.Panics(t, func() { MustSteering(WithForceFamily(LatticeResonator)) })
	require.NotPanics(t, func() { MustSteering(WithForceFamily(Helical)) })
}

func TestSteeringFromMap(t *testing.T) {
	sp, err := SteeringFromMap(map[string]interface{}{
		KeyAllowedFamilies:   []interface{}{"TOROIDAL", "lattice_resonator"},
		KeyForceFamily:       "toroidal",
		KeyPhaseBehavior:     Flowing,
		KeyBoundaryCondition: "open",
		"colour":             "blue",
		"amplitude":          3,
	})
	require.NoError(t, err)
	require.Equal(t, []TopologyFamily{Toroidal, LatticeResonator}, sp.AllowedFamilies())
	f, forced := sp.ForceFamily()
	require.True(t, forced)
	require.Equal(t, Toroidal, f)
	require.Equal(t, Flowing, sp.PhaseBehavior())
	require.Equal(t, Open, sp.BoundaryCondition())
	require.Equal(t, []string{"amplitude", "colour"}, sp.IgnoredKeys())

	_, err = SteeringFromMap(map[string]interface{}{KeyForceFamily: nil})
	require.NoError(t, err)

	_, err = SteeringFromMap(map[string]interface{}{KeyPhaseBehavior: "sideways"})
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = SteeringFromMap(map[string]interface{}{KeyForceFamily: "spheroid", KeyAllowedFamilies: []string{"toroidal"}})
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestSteeringMapRoundTrip(t *testing.T) {
	sp := MustSteering(
		WithAllowedFamilies(PlanarRelief, KleinBottle),
		WithForceFamily(KleinBottle),
		WithOrientationRule(MobiusTwist),
		WithPhaseBehavior(Quantized),
		WithDimensionality(Pseudo4D),
	)
	got, err := SteeringFromMap(sp.Map())
	require.NoError(t, err)
	require.Equal(t, sp, got)
}

func TestSteeringYAML(t *testing.T) {
	const doc = `
allowed_families: [planar_relief, helical]
force_family: HELICAL
phase_behavior: flowing
orientation_rule: allow_flip
unknown_option: 1
`
	sp, err := ParseSteeringYAML([]byte(doc))
	require.NoError(t, err)
	f, forced := sp.ForceFamily()
	require.True(t, forced)
	require.Equal(t, Helical, f)
	require.Equal(t, Flowing, sp.PhaseBehavior())
	require.Equal(t, AllowFlip, sp.OrientationRule())
	require.Equal(t, []string{"unknown_option"}, sp.IgnoredKeys())

	empty, err := ParseSteeringYAML(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultSteering(), empty)

	_, err = ParseSteeringYAML([]byte("force_family: klein_bottle\nallowed_families: [klein_bottle]\n"))
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = ParseSteeringYAML([]byte("allowed_families: [\n"))
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestSteeringEmbeddedYAML(t *testing.T) {
	var cfg struct {
		Name     string          `yaml:"name"`
		Steering SteeringProfile `yaml:"steering"`
	}
	in := DefaultSteering()
	b, err := yaml.Marshal(struct {
		Name     string          `yaml:"name"`
		Steering SteeringProfile `yaml:"steering"`
	}{"rings", in})
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(b, &cfg))
	require.Equal(t, "rings", cfg.Name)
	require.Equal(t, in, cfg.Steering)
}

func TestParseEnums(t *testing.T) {
	for _, f := range Families() {
		got, err := ParseTopologyFamily(f.String())
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
	f, err := ParseTopologyFamily("COMPACTIFIED_FOLDED")
	require.NoError(t, err)
	require.Equal(t, CompactifiedFolded, f)
	_, err = ParseTopologyFamily("mobius_strip")
	require.Error(t, err)

	var tf TopologyFamily
	require.NoError(t, tf.UnmarshalText([]byte("Klein_Bottle")))
	require.Equal(t, KleinBottle, tf)
	require.False(t, tf.Orientable())
	_, err = TopologyFamily(-1).MarshalText()
	require.Error(t, err)

	d, err := ParseDimensionality("PSEUDO_4D")
	require.NoError(t, err)
	require.Equal(t, Pseudo4D, d)
	require.Equal(t, "PhaseBehavior(7)", PhaseBehavior(7).String())
}
