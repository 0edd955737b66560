// Package client is the SafeDocs backend gateway of the terminal client.
//
// It provides:
//  1. The Client interface: the REST operations the services depend on
//     (auth, documents, upload URLs, shared links).
//  2. HTTPClient, a JSON implementation over net/http. Authenticated calls
//     carry the session token through an oauth2 bearer transport; a 401 from
//     the backend clears the session and fires the OnUnauthorized hook.
//  3. State DB bootstrap (InitDatabase, RunMigrations) applying the embedded
//     goose migrations to SQLite.
//
// # Errors
//
// Sentinels matched with errors.Is: ErrUnavailable, ErrUnauthorized,
// ErrNoSession. Other non-2xx responses come back as *APIError carrying the
// backend's message.
//
// No call is retried.
package client
