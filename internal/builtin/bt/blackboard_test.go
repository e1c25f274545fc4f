package bt

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlackboard_BasicOperations(t *testing.T) {
	t.Parallel()

	bb := new(Blackboard)
	require.Nil(t, bb.Get("missing"))
	require.False(t, bb.Has("missing"))
	require.Zero(t, bb.Len())
	require.Empty(t, bb.Keys())

	bb.Set("b", 2)
	bb.Set("a", "one")
	require.Equal(t, "one", bb.Get("a"))
	require.True(t, bb.Has("b"))
	require.Equal(t, []string{"a", "b"}, bb.Keys())
	require.Equal(t, 2, bb.Len())

	bb.Delete("a")
	require.False(t, bb.Has("a"))
	require.Equal(t, 1, bb.Len())

	bb.Clear()
	require.Zero(t, bb.Len())
	bb.Set("after", true)
	require.Equal(t, true, bb.Get("after"))
}

func TestBlackboard_Snapshot(t *testing.T) {
	t.Parallel()

	bb := new(Blackboard)
	require.NotNil(t, bb.Snapshot())

	bb.Set("a", 1)
	snapshot := bb.Snapshot()
	require.Equal(t, map[string]any{"a": 1}, snapshot)

	snapshot["c"] = 3
	require.False(t, bb.Has("c"))
}

func TestBlackboard_ThreadSafety(t *testing.T) {
	t.Parallel()

	bb := new(Blackboard)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("key-%d-%d", id, i%10)
				switch i % 5 {
				case 0:
					bb.Set(key, i)
				case 1:
					bb.Get(key)
				case 2:
					_ = bb.Snapshot()
				case 3:
					_ = bb.Keys()
				case 4:
					bb.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()

	bb.Set("final", "ok")
	require.Equal(t, "ok", bb.Get("final"))
}

func TestBlackboard_ExposeToJS(t *testing.T) {
	t.Parallel()

	bb := new(Blackboard)
	bb.Set("initial", "value")
	bridge := testBridge(t)

	var (
		got     any
		hasInit bool
		keys    any
	)
	err := bridge.RunOnLoopSync(func(vm *goja.Runtime) error {
		if err := vm.Set("blackboard", bb.ExposeToJS(vm)); err != nil {
			return err
		}
		v, err := vm.RunString(`
			blackboard.set("fromJS", 123);
			blackboard.delete("gone");
			blackboard.get("initial")
		`)
		if err != nil {
			return err
		}
		got = v.Export()
		v, err = vm.RunString(`blackboard.has("initial")`)
		if err != nil {
			return err
		}
		hasInit = v.ToBoolean()
		v, err = vm.RunString(`blackboard.keys()`)
		if err != nil {
			return err
		}
		keys = v.Export()
		_, err = vm.RunString(`blackboard.clear()`)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, "value", got)
	assert.True(t, hasInit)
	assert.Equal(t, []string{"fromJS", "initial"}, keys)
	assert.Zero(t, bb.Len())
}
