// Package server holds the HTTP server configuration.
//
// While the cmd package handles the server startup, this package defines the
// configuration structure for the listen port, the API key protecting every
// route and whether the swagger UI is exposed.
package server
