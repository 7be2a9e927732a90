package share

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareBasicShapeAndIndices(t *testing.T) {
	secret := []byte{10, 20, 30, 40}
	result, err := Share(secret, 2, 5)
	require.NoError(t, err)
	require.Len(t, result.Pixels, 5)
	for _, pixels := range result.Pixels {
		assert.Len(t, pixels, 2)
	}
}

func TestShareRejectsNonDivisibleLength(t *testing.T) {
	_, err := Share([]byte{1, 2, 3}, 2, 3)
	assert.Error(t, err)
}

func TestShareRejectsKGreaterThanN(t *testing.T) {
	_, err := Share([]byte{1, 2}, 3, 2)
	assert.Error(t, err)
}

func TestEvalPolynomialMatchesDirectComputation(t *testing.T) {
	// f(x) = 10 + 20x, evaluated at x=3 -> 10 + 60 = 70
	assert.Equal(t, 70, evalPolynomial([]int{10, 20}, 3))
}

func TestCoefficientRepairTriggersOnOverflow(t *testing.T) {
	// (128, 128) evaluated at x=1 is 256, exactly the unrepresentable value
	// the repair rule exists for.
	secret := []byte{128, 128}
	result, err := Share(secret, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RepairedGroups)

	for _, pixels := range result.Pixels {
		for _, v := range pixels {
			assert.LessOrEqual(t, int(v), 255)
		}
	}
}

func TestRepairCoefficientsSkipsZerosAndDecrementsFirstNonZero(t *testing.T) {
	coeff := []int{0, 0, 5, 3}
	require.NoError(t, repairCoefficients(coeff))
	assert.Equal(t, []int{0, 0, 4, 3}, coeff)
}

func TestRepairCoefficientsFailsWhenAllZero(t *testing.T) {
	coeff := []int{0, 0, 0}
	assert.Error(t, repairCoefficients(coeff))
}
