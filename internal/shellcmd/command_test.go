package shellcmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionsSilencedByDefault(t *testing.T) {
	cmd := New("gcc -c a.c")
	assert.Equal(t, []string{"@gcc -c a.c"}, cmd.Actions(false))
}

func TestActionsNoisySkipsPrefix(t *testing.T) {
	cmd := New("gcc -c a.c")
	assert.Equal(t, []string{"gcc -c a.c"}, cmd.Actions(true))
}

func TestActionsWithCommentPrependsEcho(t *testing.T) {
	cmd := New("gcc -c a.c").WithComment("Building a.o")
	assert.Equal(t, []string{"@echo 'Building a.o'", "@gcc -c a.c"}, cmd.Actions(false))
}

func TestEscapeIdempotentOnPlainStrings(t *testing.T) {
	assert.Equal(t, "abc", Escape("abc"))
}

func TestEscapeBackslashesWhitespaceParensBackslash(t *testing.T) {
	assert.Equal(t, `foo\ bar\(baz\)\\x`, Escape(`foo bar(baz)\x`))
}
