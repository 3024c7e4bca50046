// Package workflow implements the controller every console screen runs:
// load a scoped collection, wait for the user's selection, submit one
// mutation, show the outcome, and navigate away after a fixed delay.
//
// The controller is driven from a bubbletea Update loop. Gateway calls run
// as tea.Cmds and come back as messages; timers are tea.Ticks. All state
// changes happen inside Update, so no locking is needed.
package workflow
