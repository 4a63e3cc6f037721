// Package cli provides the interactive gophchat command-line client.
//
// Build wires configuration, the local SQLite database, the auth client,
// the messaging connector, the session store and the login orchestrator
// into an App. App.Run first tries to restore the stored session and then
// serves a REPL until the user exits:
//
//   - login / logout
//   - whoami: show the stored user
//   - contacts: list the roster synced after login
//   - ping: check that the auth backend is reachable
//
// A background watcher keeps the prompt's online/offline marker current.
package cli
