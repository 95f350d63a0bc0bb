package graphql

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/booltime"
)

func TestMarshalTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	MarshalTimestamp(&at).MarshalGQL(&buf)
	assert.Equal(t, `"2024-03-01T09:30:00Z"`, buf.String())

	buf.Reset()
	MarshalTimestamp(nil).MarshalGQL(&buf)
	assert.Equal(t, "null", buf.String())

	got, err := UnmarshalTimestamp("2024-03-01T09:30:00Z")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, at.Equal(*got))

	got, err = UnmarshalTimestamp(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = UnmarshalTimestamp("yesterday")
	assert.ErrorContains(t, err, "graphql: timestamp")
}

type member struct {
	ActivatedAt *time.Time
}

func TestResolvers(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	is, stamp := Resolvers(booltime.Declare("activate", booltime.WithClock(func() time.Time { return at })))

	m := &member{}
	ok, err := is(booltime.MustStruct(m))
	require.NoError(t, err)
	assert.False(t, ok)
	v, err := stamp(booltime.MustStruct(m))
	require.NoError(t, err)
	var buf bytes.Buffer
	v.MarshalGQL(&buf)
	assert.Equal(t, "null", buf.String())

	m.ActivatedAt = &at
	ok, err = is(booltime.MustStruct(m))
	require.NoError(t, err)
	assert.True(t, ok)
	v, err = stamp(booltime.MustStruct(m))
	require.NoError(t, err)
	buf.Reset()
	v.MarshalGQL(&buf)
	assert.Equal(t, `"2024-03-01T09:30:00Z"`, buf.String())

	_, err = is(booltime.MustStruct(&struct{ Name string }{}))
	assert.ErrorIs(t, err, booltime.ErrUnknownAttribute)
}
