package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"hello", "world"}, Terms("  Hello, WORLD! hello "))
	assert.Equal(t, []string{"don't", "or", "panic"}, Terms(`"don't" OR panic*`))
	assert.Empty(t, Terms(" ** () "))
}
