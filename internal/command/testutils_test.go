package command

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute parses args with the command's own flags, as main does, and runs
// it, returning stdout, stderr and the error.
func execute(t *testing.T, cmd Command, args ...string) (string, string, error) {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.SetupFlags(fs)
	require.NoError(t, fs.Parse(args))
	var stdout, stderr bytes.Buffer
	err := cmd.Execute(fs.Args(), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// writeScript writes a tree script into a temp dir and returns its path.
func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("const act = require('acttree');\n"+body), 0o644))
	return path
}

const patrolScript = `
act.blackboard.set('battery', 80);
act.setRoot(act.sequence('patrol',
	act.condition('charged', 'battery > 20'),
	act.loop('sweep', 3, act.leaf('step', (bb) => {
		bb.set('steps', (bb.get('steps') || 0) + 1);
		return act.succeeded;
	})),
));
`

const failingScript = `
act.setRoot(act.selector('fallback',
	act.leaf('first', () => act.failed),
	act.leaf('second', () => false),
));
`

const spinningScript = `
act.setRoot(act.loop('forever', act.unbounded, act.leaf('tick', () => true)));
`
