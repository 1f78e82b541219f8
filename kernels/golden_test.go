package kernels

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// Golden snapshots pin the exact materialized gram matrices for the
// reference kernels. Regenerate with:
//
//	go test ./kernels -update
func TestGoldenGramMatrices(t *testing.T) {
	t.Parallel()
	g := goldie.New(t)

	rbf, err := NewRBF()
	require.NoError(t, err)
	m, err := rbf.Gram(points(1, 2, 3))
	require.NoError(t, err)
	g.Assert(t, "rbf_dense_gram", []byte(m.Render()))

	white, err := NewWhite()
	require.NoError(t, err)
	d, err := white.Gram(points(0, 1, 2))
	require.NoError(t, err)
	g.Assert(t, "white_diagonal_gram", []byte(d.Render()))
	g.Assert(t, "white_dense_gram", []byte(d.ToDense().Render()))
}
