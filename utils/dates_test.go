package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-03")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2025-01-03T09:30:00+07:00")
	require.NoError(t, err)
	require.Equal(t, 2, d.Hour())

	_, err = ParseDate("03/01/2025")
	require.Error(t, err)
	_, err = ParseDate(" ")
	require.Error(t, err)

	opt, err := ParseOptionalDate("")
	require.NoError(t, err)
	require.Nil(t, opt)
}

func TestParseIDAndBool(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	require.Equal(t, uint(42), id)

	_, err = ParseID("0")
	require.Error(t, err)
	_, err = ParseID("all")
	require.Error(t, err)

	b, err := ParseOptionalBool("true")
	require.NoError(t, err)
	require.True(t, *b)
	b, err = ParseOptionalBool("")
	require.NoError(t, err)
	require.Nil(t, b)
	_, err = ParseOptionalBool("maybe")
	require.Error(t, err)

	require.Equal(t, 3, IntOrDefault("3", 1))
	require.Equal(t, 1, IntOrDefault("x", 1))
}
