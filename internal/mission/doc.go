// Package mission implements the campaign state machine.
//
// Progress is a set of completed mission IDs, not a single cursor, which
// makes persistence and restoration trivial. Advancement is strictly
// sequential: only the lowest incomplete mission is evaluated, and one
// action may cascade through several missions when their objectives are
// all met.
package mission
