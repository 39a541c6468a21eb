package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"promptpack/internal/types"
)

func TestResolveConflictDefault(t *testing.T) {
	assert.Equal(t, types.PromptChoiceKeep, ResolveConflictDefault(false))
	assert.Equal(t, types.PromptChoiceOverwrite, ResolveConflictDefault(true))
}
