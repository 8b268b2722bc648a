// Package cli provides the interactive shoppi command-line client.
//
// It restores the cached session at start-up (revalidating it in the
// background once it is stale), watches backend reachability and runs a
// REPL over the session and shopping services. Command errors are printed
// and never end the program.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
