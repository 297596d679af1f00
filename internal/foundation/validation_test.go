package foundation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
)

func TestValidatorChainCollectsAll(t *testing.T) {
	positive := func(n int) ValidationResult {
		if n <= 0 {
			return Fail("n", "positive", "must be positive", n)
		}
		return Ok()
	}
	chain := NewValidatorChain(positive).Add(OneOf("n", []int{1, 2, 3}))

	require.True(t, chain.Validate(2).Valid())

	res := chain.Validate(-1)
	require.Len(t, res.Errors, 2)

	err := res.ToError()
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.Contains(t, err.Error(), "n: must be positive")
}

func TestOkToErrorIsNil(t *testing.T) {
	require.NoError(t, Ok().ToError())
}
