package operation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, k := range All() {
		got, err := Parse(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := Parse("b2b")
	assert.Error(t, err)
}

func TestAllReturnsCopy(t *testing.T) {
	kinds := All()
	require.Len(t, kinds, 9)
	kinds[0] = "mutated"
	assert.Equal(t, B2BPayment, All()[0])
}
