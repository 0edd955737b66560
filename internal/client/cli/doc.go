// Package cli provides the interactive SafeDocs command-line client.
//
// It wires configuration, the state DB, the API gateway and the services
// into a REPL. Typical flow: restore the saved session or prompt for
// credentials, then run document commands until the user exits.
//
// Key features:
//   - Register / Login / Logout
//   - List, search and delete documents; storage statistics
//   - Queue and upload files directly to object storage
//   - Generate share links and copy them to the clipboard
//   - Open and download shared documents without an account
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
