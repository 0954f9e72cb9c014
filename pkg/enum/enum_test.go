package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("create a enum of string", func(t *testing.T) {
		type EnumString string

		bar := New(EnumString("bar"))
		foo := New(EnumString("foo"))
		require.Equal(t, EnumString("bar"), bar)

		v, err := ToEnum[EnumString]("bar")
		require.NoError(t, err)
		require.Equal(t, bar, v)

		_, err = ToEnum[EnumString]("Bar")
		require.Error(t, err)

		require.Equal(t, []EnumString{bar, foo}, Values[EnumString]())
	})

	t.Run("create a enum of int", func(t *testing.T) {
		type EnumInt int

		bar := New(EnumInt(100))

		v, err := ToEnum[EnumInt]("100")
		require.NoError(t, err)
		require.Equal(t, bar, v)

		_, err = ToEnum[EnumInt]("200")
		require.Error(t, err)
	})

	t.Run("unregistered type", func(t *testing.T) {
		type Unknown string

		_, err := ToEnum[Unknown]("x")
		require.Error(t, err)
		require.Nil(t, Values[Unknown]())
	})
}
