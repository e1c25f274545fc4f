/*
Package bt lets JavaScript build and drive act trees, using the goja runtime
on a goja_nodejs event loop.

# Architecture

Composites are always act nodes implemented in Go. Scripts only supply leaf
behaviour, either as functions or as expr-lang conditions over the shared
Blackboard:

	const act = require('acttree');
	act.blackboard.set('battery', 80);
	act.setRoot(act.sequence('patrol',
		act.condition('charged', 'battery > 20'),
		act.loop('sweep', 3, act.leaf('step', (bb) => act.succeeded)),
	));

The Go side collects the tree with Bridge.Root and advances it, usually
through the driver package. JS leaves always run on the event loop: when the
tree is advanced from another goroutine the leaf call is posted to the loop
and waited for, and when it is advanced by a script it runs inline.

# Concurrency

act trees are not goroutine safe. A tree must be advanced either from
scripts or from a single Go goroutine at any one time, never both.
*/
package bt
