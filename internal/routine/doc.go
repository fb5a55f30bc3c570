// Package routine implements one-tap automations: named bundles of
// device patches the player can run from the automation tab, with a
// bounded execution history.
package routine
