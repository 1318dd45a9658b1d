package uitransport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	assert.Equal(t, "double", KindDouble.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
	assert.True(t, KindUInt.IsNumeric())
	assert.False(t, KindMeter.IsNumeric())
}

func TestOp(t *testing.T) {
	assert.Equal(t, "echo", OpEcho.String())
	assert.Equal(t, "unknown", Op(42).String())
}
