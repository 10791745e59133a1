// Package server exposes the catalog, identity and playlist services over HTTP+JSON.
//
// # Routing
//
// [NewRouter] builds a chi router. Each resource is a handler struct whose dependencies are
// passed to its constructor and which mounts its own routes through [Handler].
//
// # Responses
//
// Every response uses the envelope
//
//	{"status": "success" | "fail" | "error", "message": "...", "data": {...}}
//
// Service errors are mapped by [shared.Kind] to a status and a fixed message per kind. Client
// kinds answer "fail"; anything unclassified, panics included, answers 500 "error". Error
// details only reach the log.
//
// # Authentication
//
// Routes under /playlists require "Authorization: Bearer <access token>". The authenticated
// user id is available to handlers through [auth.PrincipalFrom]; ownership of individual
// playlists is checked by the handlers before every playlist-scoped operation.
package server
