package adapters

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptpack/internal/ports"
	"promptpack/internal/types"
)

func testConflict() ports.Conflict {
	return ports.Conflict{
		Key:         types.OutputKey{Scope: types.AssetScopeProject, RelativePath: ".claude/policies/style.md"},
		DiskContent: []byte("edited by hand\n"),
		NewContent:  []byte("fresh output\n"),
	}
}

func TestPrompterAnswers(t *testing.T) {
	tests := []struct {
		input    string
		choice   types.PromptChoice
		applyAll bool
	}{
		{"o\n", types.PromptChoiceOverwrite, false},
		{"O\n", types.PromptChoiceOverwrite, true},
		{"k\n", types.PromptChoiceKeep, false},
		{"K\n", types.PromptChoiceKeep, true},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			out := &bytes.Buffer{}
			prompter := NewTerminalPrompter(strings.NewReader(tt.input), out)

			choice, applyAll, err := prompter.Ask(testConflict())
			require.NoError(t, err)
			assert.Equal(t, tt.choice, choice)
			assert.Equal(t, tt.applyAll, applyAll)
			assert.Contains(t, out.String(), "was modified outside promptpack")
		})
	}
}

func TestPrompterDiffThenKeep(t *testing.T) {
	out := &bytes.Buffer{}
	prompter := NewTerminalPrompter(strings.NewReader("d\nk\n"), out)

	choice, _, err := prompter.Ask(testConflict())
	require.NoError(t, err)
	assert.Equal(t, types.PromptChoiceKeep, choice)
	assert.Contains(t, out.String(), "-edited by hand")
	assert.Contains(t, out.String(), "+fresh output")
}

func TestPrompterKeepsBufferedInputAcrossAsks(t *testing.T) {
	out := &bytes.Buffer{}
	prompter := NewTerminalPrompter(strings.NewReader("k\no\n"), out)

	choice, applyAll, err := prompter.Ask(testConflict())
	require.NoError(t, err)
	assert.Equal(t, types.PromptChoiceKeep, choice)
	assert.False(t, applyAll)

	// The second answer was already read ahead into the scanner's
	// buffer; it must reach the second conflict, not vanish.
	choice, applyAll, err = prompter.Ask(testConflict())
	require.NoError(t, err)
	assert.Equal(t, types.PromptChoiceOverwrite, choice)
	assert.False(t, applyAll)
}

func TestPrompterEOFFallsBackToKeepAll(t *testing.T) {
	prompter := NewTerminalPrompter(strings.NewReader(""), &bytes.Buffer{})

	choice, applyAll, err := prompter.Ask(testConflict())
	require.NoError(t, err)
	assert.Equal(t, types.PromptChoiceKeep, choice)
	assert.True(t, applyAll)
}

func TestPrompterReasksOnUnknownAnswer(t *testing.T) {
	out := &bytes.Buffer{}
	prompter := NewTerminalPrompter(strings.NewReader("x\no\n"), out)

	choice, _, err := prompter.Ask(testConflict())
	require.NoError(t, err)
	assert.Equal(t, types.PromptChoiceOverwrite, choice)
	assert.Contains(t, out.String(), "unrecognized answer")
}
