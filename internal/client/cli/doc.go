// Package cli provides the interactive govadmin command-line client.
//
// It wires configuration, the local credential store, the admin API client,
// the session manager and the route guard into a REPL. On start the stored
// identity is restored optimistically and the first protected command
// confirms it against the server.
//
// Key features:
//   - Login / Logout / Whoami and password recovery
//   - Paginated, filterable listings of every admin resource
//   - Record actions (delete, activate, deactivate) with list refresh
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
