// Package engine implements atomic reaction toggling.
//
// Every mutation runs inside a unit of work: edge insert/delete, counter
// adjustment, and ledger write commit or roll back together. The target
// content row is locked for the duration, so concurrent toggles on the same
// item serialize while different items proceed in parallel.
package engine
