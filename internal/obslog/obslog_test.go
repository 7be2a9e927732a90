package obslog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEachLoggerGetsADistinctCorrelationID(t *testing.T) {
	a := New(false)
	b := New(true)
	assert.NotEmpty(t, a.CorrelationID())
	assert.NotEqual(t, a.CorrelationID(), b.CorrelationID())
}
