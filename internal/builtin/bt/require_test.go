package bt

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/joeycumines/acttree/internal/act"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadRoot runs script with the module bound to act and returns the root it
// set.
func loadRoot(t *testing.T, bridge *Bridge, script string) *act.Node {
	t.Helper()
	require.NoError(t, bridge.LoadScript(t.Name()+".js", "const act = require('acttree');\n"+script))
	root := bridge.Root()
	require.NotNil(t, root, "script did not call setRoot")
	return root
}

// drive advances root from the test goroutine until it concludes.
func drive(t *testing.T, root *act.Node, limit int) []act.Status {
	t.Helper()
	var out []act.Status
	for i := 0; i < limit; i++ {
		status, err := root.Advance()
		require.NoError(t, err)
		out = append(out, status)
		if status.Terminal() {
			return out
		}
	}
	t.Fatalf("%s did not conclude within %d steps", root.Name(), limit)
	return nil
}

func TestModule_Exports(t *testing.T) {
	t.Parallel()

	bridge := testBridge(t)
	require.NoError(t, bridge.LoadScript("exports.js", `
		const act = require('acttree');
		globalThis.exported = [
			act.running, act.succeeded, act.failed, act.unbounded,
			typeof act.leaf, typeof act.condition, typeof act.selector,
			typeof act.sequence, typeof act.parallel, typeof act.loop,
			typeof act.ignoreFailure, typeof act.not, typeof act.dump,
			typeof act.advance, typeof act.reset, typeof act.setRoot,
			typeof act.blackboard.get,
		];
	`))
	v, ok := bridge.GetGlobal("exported")
	require.True(t, ok)
	assert.Equal(t, []any{
		"running", "succeeded", "failed", int64(-1),
		"function", "function", "function",
		"function", "function", "function",
		"function", "function", "function",
		"function", "function", "function",
		"function",
	}, v)
}

func TestModule_BuildAndDump(t *testing.T) {
	t.Parallel()

	bridge := testBridge(t)
	root := loadRoot(t, bridge, `
		const tree = act.sequence('root',
			act.selector('sel', act.leaf('a', () => act.failed), act.leaf('b', () => true)),
			act.loop('loop', 2, act.leaf('c', () => act.succeeded)),
			act.not(act.leaf(() => false)),
		);
		globalThis.listing = act.dump(tree);
		act.setRoot(tree);
	`)

	want := "root\n--> sel\n    --> a\n    --> b\n--> loop\n    --> c\n--> Negate\n    --> Leaf\n"
	listing, _ := bridge.GetGlobal("listing")
	assert.Equal(t, want, listing)
	assert.Equal(t, want, act.Sprint(root))
	assert.Equal(t, act.KindSequence, root.Kind())
	statuses := drive(t, root, 20)
	assert.Equal(t, act.Succeeded, statuses[len(statuses)-1])
}

func TestModule_LeavesUseBlackboard(t *testing.T) {
	t.Parallel()

	bridge := testBridge(t)
	root := loadRoot(t, bridge, `
		act.setRoot(act.loop('count', 3,
			act.leaf('inc', (bb) => { bb.set('n', (bb.get('n') || 0) + 1); return act.succeeded; }),
		));
	`)
	statuses := drive(t, root, 10)
	assert.Equal(t, []act.Status{act.Running, act.Running, act.Running, act.Succeeded}, statuses)
	assert.Equal(t, int64(3), bridge.Blackboard().Get("n"))
}

func TestModule_Condition(t *testing.T) {
	t.Parallel()

	bridge := testBridge(t)
	root := loadRoot(t, bridge, `
		act.blackboard.set('battery', 10);
		act.setRoot(act.selector(
			act.condition('charged', 'battery > 20'),
			act.condition('battery < 5'),
		));
	`)
	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "charged", children[0].Name())
	assert.Equal(t, "battery < 5", children[1].Name())
	assert.Equal(t, []act.Status{act.Running, act.Running, act.Failed}, drive(t, root, 10))

	bridge.Blackboard().Set("battery", 50)
	root.Reset()
	assert.Equal(t, []act.Status{act.Succeeded}, drive(t, root, 10))
}

func TestModule_ConditionUsesBridgeLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	bridge := testBridge(t, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	root := loadRoot(t, bridge, `
		act.blackboard.set('battery', 'low');
		act.setRoot(act.condition('charged', 'battery > 20'));
	`)
	assert.Equal(t, []act.Status{act.Failed}, drive(t, root, 1))
	assert.Contains(t, buf.String(), "condition evaluation failed")
}

func TestModule_LeafFailuresMapToFailed(t *testing.T) {
	t.Parallel()

	bridge := testBridge(t)
	root := loadRoot(t, bridge, `
		act.setRoot(act.parallel(
			act.leaf('throws', () => { throw new Error('boom'); }),
			act.leaf('running', () => act.running),
			act.leaf('garbage', () => 42),
			act.leaf('undefined', () => {}),
		));
	`)
	assert.Equal(t, []act.Status{act.Failed}, drive(t, root, 10))
	for _, child := range root.Children() {
		assert.True(t, child.Exhausted(), child.Name())
	}
}

func TestModule_AdvanceFromScript(t *testing.T) {
	t.Parallel()

	bridge := testBridge(t)
	require.NoError(t, bridge.LoadScript("advance.js", `
		const act = require('acttree');
		const tree = act.sequence(act.leaf(() => act.succeeded), act.leaf(() => act.succeeded));
		const seen = [];
		for (let i = 0; i < 3; i++) seen.push(act.advance(tree));
		act.reset(tree);
		seen.push(act.advance(tree));
		globalThis.seen = seen;
	`))
	seen, _ := bridge.GetGlobal("seen")
	assert.Equal(t, []any{"running", "running", "succeeded", "running"}, seen)
}

func TestModule_ArrayChildren(t *testing.T) {
	t.Parallel()

	bridge := testBridge(t)
	root := loadRoot(t, bridge, `
		act.setRoot(act.sequence('arr', [act.leaf('x', () => true), act.leaf('y', () => true)]));
	`)
	assert.Len(t, root.Children(), 2)
}

func TestModule_ConstructorErrors(t *testing.T) {
	t.Parallel()

	for name, script := range map[string]string{
		"already owned":  `const c = act.leaf(() => true); act.sequence(c); act.selector(c);`,
		"bad bound":      `act.loop(-2)`,
		"fractional":     `act.loop(1.5)`,
		"not a node":     `act.sequence(42)`,
		"leaf no fn":     `act.leaf('x')`,
		"bad condition":  `act.condition('battery >')`,
		"setRoot":        `act.setRoot({})`,
		"advance twice":  `const l = act.leaf(() => true); act.advance(l); act.advance(l);`,
		"unbounded loop": `act.advance(act.loop(act.unbounded))`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			bridge := testBridge(t)
			err := bridge.LoadScript("bad.js", "const act = require('acttree');\n"+script)
			require.Error(t, err)
			assert.Nil(t, bridge.Root())
		})
	}
}
