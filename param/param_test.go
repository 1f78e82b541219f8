package param

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliate-ml/foliate/tree"
)

func kernelSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema("kernel",
		ParamField("lengthscale", 1.0, Softplus{}, true),
		ParamField("variance", 1.0, Softplus{}, true),
		StaticField("engine", "dense"),
	)
	require.NoError(t, err)
	return s
}

func TestNewSchemaValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		typ     string
		fields  []Field
		wantErr bool
	}{
		{
			name:   "valid",
			typ:    "k",
			fields: []Field{PlainField("a", 1.0)},
		},
		{
			name:    "empty type name",
			typ:     "",
			fields:  []Field{PlainField("a", 1.0)},
			wantErr: true,
		},
		{
			name:    "no fields",
			typ:     "k",
			wantErr: true,
		},
		{
			name:    "duplicate field name",
			typ:     "k",
			fields:  []Field{PlainField("a", 1.0), StaticField("a", nil)},
			wantErr: true,
		},
		{
			name:    "unnamed field",
			typ:     "k",
			fields:  []Field{{Param: true, Default: 1.0}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewSchema(tt.typ, tt.fields...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRecordDefaultsAndGet(t *testing.T) {
	t.Parallel()
	r := New(kernelSchema(t))

	assert.Equal(t, 1.0, r.Float("lengthscale"))
	assert.Equal(t, 1.0, r.Float("variance"))
	eng, ok := r.Get("engine")
	require.True(t, ok)
	assert.Equal(t, "dense", eng)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestWithIsFunctionalUpdate(t *testing.T) {
	t.Parallel()
	r := New(kernelSchema(t))

	r2, err := r.With("variance", 4.0)
	require.NoError(t, err)

	assert.Equal(t, 4.0, r2.Float("variance"))
	assert.Equal(t, 1.0, r.Float("variance"), "original record must be untouched")
	assert.Equal(t, 1.0, r2.Float("lengthscale"), "untouched fields carry over")

	_, err = r.With("missing", 1.0)
	require.Error(t, err)
}

func TestTrainablesAndTransforms(t *testing.T) {
	t.Parallel()
	s := MustSchema("mixed",
		ParamField("free", 0.5, Softplus{}, true),
		ParamField("frozen", 2.0, Identity{}, false),
		StaticField("note", "aux"),
	)
	r := New(s)

	trainables := r.Trainables()
	free, _ := trainables.Get("free")
	frozen, _ := trainables.Get("frozen")
	note, _ := trainables.Get("note")
	assert.Equal(t, true, free)
	assert.Equal(t, false, frozen)
	assert.Nil(t, note, "static positions hold nil")

	transforms := r.Transforms()
	fb, _ := transforms.Get("free")
	assert.Equal(t, "softplus", fb.(Bijector).Name())

	assert.Equal(t, map[string]bool{"free": true, "frozen": false}, r.TrainableMap())
	assert.Equal(t, "identity", r.TransformMap()["frozen"].Name())
}

func TestConstrainUnconstrainRoundTrip(t *testing.T) {
	t.Parallel()
	s := MustSchema("vec",
		ParamField("scalar", 0.3, Softplus{}, true),
		ParamField("vector", []float64{-1.0, 0.0, 2.5}, Softplus{}, true),
		StaticField("tag", 7),
	)
	r := New(s)

	constrained, err := r.Constrain()
	require.NoError(t, err)
	assert.Greater(t, constrained.Float("scalar"), 0.0)
	vec, _ := constrained.Get("vector")
	for _, v := range vec.([]float64) {
		assert.Greater(t, v, 0.0)
	}

	back, err := constrained.Unconstrain()
	require.NoError(t, err)
	assert.InDelta(t, 0.3, back.Float("scalar"), 1e-12)
	backVec, _ := back.Get("vector")
	assert.InDeltaSlice(t, []float64{-1.0, 0.0, 2.5}, backVec.([]float64), 1e-12)

	tag, _ := back.Get("tag")
	assert.Equal(t, 7, tag, "static fields never pass through bijectors")
}

func TestConstrainRejectsBadLeafKind(t *testing.T) {
	t.Parallel()
	s := MustSchema("bad", ParamField("oops", "not a number", Identity{}, true))
	_, err := New(s).Constrain()
	require.ErrorIs(t, err, ErrLeafKind)
}

func TestStepTouchesOnlyTrainableLeaves(t *testing.T) {
	t.Parallel()
	s := MustSchema("mixed",
		ParamField("free", 1.25, Identity{}, true),
		ParamField("frozen", 0.1, Identity{}, false),
		ParamField("frozenVec", []float64{0.1, 0.2}, Identity{}, false),
	)
	r := New(s)
	frozenBefore := math.Float64bits(r.Float("frozen"))

	stepped, err := r.Step(func(_ Field, x float64) float64 { return x - 0.25 })
	require.NoError(t, err)

	assert.Equal(t, 1.0, stepped.Float("free"))
	assert.Equal(t, frozenBefore, math.Float64bits(stepped.Float("frozen")),
		"non-trainable leaves must be bit-identical after a step")
	vec, _ := stepped.Get("frozenVec")
	assert.Equal(t, []float64{0.1, 0.2}, vec.([]float64))
}

func TestRecordTreeRoundTrip(t *testing.T) {
	t.Parallel()
	r := New(kernelSchema(t))

	leaves, s := tree.Flatten(r)
	assert.Equal(t, []any{1.0, 1.0}, leaves, "parameter leaves in declared field order")
	assert.Equal(t, leaves, r.Leaves(), "Leaves matches the tree's leaf order")
	assert.Equal(t, 2, s.NumLeaves())

	back, err := tree.Unflatten(s, leaves)
	require.NoError(t, err)
	assert.True(t, r.Equal(back.(*Record)))

	eng, _ := back.(*Record).Get("engine")
	assert.Equal(t, "dense", eng, "static fields travel through aux data")
}

func TestRecordTreeMap(t *testing.T) {
	t.Parallel()
	r := New(kernelSchema(t))

	doubled, err := tree.Map(func(leaf any) any { return leaf.(float64) * 2 }, r)
	require.NoError(t, err)

	d := doubled.(*Record)
	assert.Equal(t, 2.0, d.Float("lengthscale"))
	assert.Equal(t, 2.0, d.Float("variance"))
	assert.Equal(t, 1.0, r.Float("variance"), "source record untouched")
}

func TestNilRecordFlattensAsLeaf(t *testing.T) {
	t.Parallel()
	leaves, s := tree.Flatten((*Record)(nil))
	require.Equal(t, []any{(*Record)(nil)}, leaves)
	assert.Equal(t, 1, s.NumLeaves())

	back, err := tree.Unflatten(s, leaves)
	require.NoError(t, err)
	assert.Equal(t, (*Record)(nil), back)
}

func TestRecordUnflattenLeafCountMismatch(t *testing.T) {
	t.Parallel()
	r := New(kernelSchema(t))
	_, s := tree.Flatten(r)

	_, err := tree.Unflatten(s, []any{1.0})
	require.ErrorIs(t, err, tree.ErrStructureMismatch)
}
