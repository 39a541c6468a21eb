package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashBytesIsStable(t *testing.T) {
	assert.Equal(t, HashBytes([]byte("hello")), HashBytes([]byte("hello")))
	assert.NotEqual(t, HashBytes([]byte("hello")), HashBytes([]byte("hello ")))
	assert.Len(t, HashBytes(nil), 64)
}

func TestCombineFolderHashIsOrderIndependent(t *testing.T) {
	first := CombineFolderHash(map[string][]byte{
		"SKILL.md":     []byte("entry"),
		"checklist.md": []byte("- item"),
	})
	second := CombineFolderHash(map[string][]byte{
		"checklist.md": []byte("- item"),
		"SKILL.md":     []byte("entry"),
	})
	assert.Equal(t, first, second)
}

func TestCombineFolderHashSensitiveToPathAndContent(t *testing.T) {
	base := CombineFolderHash(map[string][]byte{"a.md": []byte("x")})
	assert.NotEqual(t, base, CombineFolderHash(map[string][]byte{"b.md": []byte("x")}))
	assert.NotEqual(t, base, CombineFolderHash(map[string][]byte{"a.md": []byte("y")}))
	assert.NotEqual(t, base, CombineFolderHash(map[string][]byte{"a.md": []byte("x"), "b.md": []byte("x")}))
}
