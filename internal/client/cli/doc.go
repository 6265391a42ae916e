// Package cli is the interactive GastroLog terminal client.
//
// App is the composition root: it opens the local database, builds the
// remote client, token provider, sync engine and services, and runs a
// read-eval-print loop over them. The engine is the only owner of the log
// collection; commands read snapshots from it and mutate it only through
// Add, Delete and Resync.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
