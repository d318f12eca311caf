// Package profile implements the contact profile feature.
//
// The Service reads the profile of the contact behind a session, writes name
// and preferred email back through the facet store and keeps the session
// cache coherent by reloading it after every save. It also probes the
// collection and validates the configuration.
//
// # Routes
//
//	GET    /contact           current contact profile
//	PUT    /contact           set first name, last name and preferred email
//	POST   /contact/identify  bind the session to an identifier
//	GET    /session           session state
//	DELETE /session           abandon the session
//	GET    /status            collection probe
//	GET    /config/validate   configuration diagnostics
package profile
