package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	some := Some(7)
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	assert.True(t, some.IsSome())
	assert.Equal(t, 7, some.Or(1))
	assert.Equal(t, "Some(7)", some.String())

	none := None[int]()
	_, ok = none.Get()
	assert.False(t, ok)
	assert.Equal(t, 1, none.Or(1))
	assert.Equal(t, "None", none.String())

	var zero Value[string]
	assert.False(t, zero.IsSome(), "zero Value is absent")

	assert.Equal(t, Some("x"), From("x", true))
	assert.Equal(t, None[string](), From("x", false))
}
