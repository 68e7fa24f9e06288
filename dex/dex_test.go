package dex

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenarb/flasharb/apperror"
)

func TestParseType(t *testing.T) {
	got, err := ParseType(0)
	require.NoError(t, err)
	assert.Equal(t, TypeUniswapV2, got)

	got, err = ParseType(1)
	require.NoError(t, err)
	assert.Equal(t, TypeSushiswapV2, got)

	_, err = ParseType(2)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidRoute))
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "UniswapV2", TypeUniswapV2.String())
	assert.Equal(t, "SushiswapV2", TypeSushiswapV2.String())
}

func TestPairKeyIsOrderIndependent(t *testing.T) {
	a := common.HexToAddress("0x01")
	b := common.HexToAddress("0x02")
	c := common.HexToAddress("0x03")

	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.NotEqual(t, PairKey(a, b), PairKey(a, c))
}

func TestRegistryGetUnknownType(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get(TypeUniswapV2)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidRoute))
}
