// cmd/staffdesk/main.go
//
// Entry point for the staffdesk console.
//
// `staffdesk` opens the TUI for the signed-in employee. The subcommands
// manage the session (login, logout, whoami) and run the in-memory
// development backend (serve-dev).

package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
