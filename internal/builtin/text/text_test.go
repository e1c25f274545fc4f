package text

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"
	"github.com/stretchr/testify/assert"
	gorequire "github.com/stretchr/testify/require"
)

func TestWidth(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]int{
		"":             0,
		"abc":          3,
		"\u4f60\u597d": 4,
		"e\u0301":      1,
		"a\u200bb":     2,
		"\U0001F600":   2,
	} {
		assert.Equal(t, want, Width(in), "%q", in)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in       string
		maxWidth int
		tail     string
		want     string
	}{
		{"patrol", 6, "...", "patrol"},
		{"patrolling", 6, "...", "pat..."},
		{"你好世界", 5, "…", "你好…"},
		{"ééé", 2, "", "éé"},
		{"abcdef", 2, "...", "..."},
		{"abcdef", 0, "", ""},
	} {
		assert.Equal(t, tc.want, Truncate(tc.in, tc.maxWidth, tc.tail), "%q", tc.in)
	}
}

func TestPad(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok  ", Pad("ok", 4))
	assert.Equal(t, "你 ", Pad("你", 3))
	assert.Equal(t, "toolong", Pad("toolong", 3))
}

func TestRequire(t *testing.T) {
	t.Parallel()

	registry := require.NewRegistry()
	registry.RegisterNativeModule(ModuleName, Require)
	vm := goja.New()
	registry.Enable(vm)

	v, err := vm.RunString(`
		const text = require('acttree/text');
		[text.width('你好'), text.truncate('patrolling', 6), text.truncate('patrolling', 7, '~'), text.pad('ok', 4), text.width()].join('|');
	`)
	gorequire.NoError(t, err)
	assert.Equal(t, "4|pat...|patrol~|ok  |0", v.String())

	_, err = vm.RunString(`require('acttree/text').truncate('x')`)
	gorequire.Error(t, err)
}
