package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusValuesOrderedAndStable(t *testing.T) {
	first := StatusValues()
	second := StatusValues()

	require.Len(t, first, 5)
	assert.Equal(t, StatusNotProcessed, first[0])
	assert.Equal(t, first, second)

	// Mutating a returned slice must not corrupt the vocabulary.
	first[0] = "Mangled"
	assert.Equal(t, StatusNotProcessed, StatusValues()[0])
}

func TestInitialStatusIsFirstVocabularyValue(t *testing.T) {
	assert.Equal(t, StatusValues()[0], InitialStatus())
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range StatusValues() {
		assert.True(t, IsValidStatus(status), "expected '%s' to be valid", status)
	}
	assert.False(t, IsValidStatus("Teleported"))
	assert.False(t, IsValidStatus(""))
}
