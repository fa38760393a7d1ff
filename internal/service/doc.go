// Package service provides application-level services for the bulk FAQ
// generation engine: entitlement resolution, per-product FAQ generation
// and persistence, and the bulk job lifecycle (start, cancel, status).
//
// Services depend on store interfaces and the generation provider
// interface, never on concrete platform implementations. The API layer
// maps service errors to HTTP status codes; the task layer drives the
// per-product service from the background worker.
package service
