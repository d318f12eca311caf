// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or api_key query).
//   - rayid: tags every request with a ray id, stored in the "ray_id" local
//     and echoed in the X-Ray-ID response header.
//
// The session middleware lives with the profile feature, which owns sessions.
package middleware
