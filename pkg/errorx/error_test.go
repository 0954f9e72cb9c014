package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	err := New(NotFound, "Not found task %d", 3)
	require.Equal(t, "Not found task 3", err.Error())

	wrapped := fmt.Errorf("wrap: %w", err)
	require.True(t, errors.Is(wrapped, Error{Code: NotFound}))
	require.False(t, errors.Is(wrapped, Error{Code: Conflict}))

	var errx Error
	require.True(t, errors.As(wrapped, &errx))
	require.Equal(t, NotFound, errx.Code)
}

func TestWithDetail(t *testing.T) {
	err := New(InvalidAnswer, "Some answers are incorrect").WithDetail([]int{1, 2})
	require.Equal(t, []int{1, 2}, err.Detail)
	require.Equal(t, InvalidAnswer, err.Code)
}
