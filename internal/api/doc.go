// Package api implements the HTTP layer of the FAQ generation backend:
// request/response models, handlers for shop authentication and the bulk
// job lifecycle, and the error-to-status mapping. Handlers translate
// between HTTP and the service layer and never touch stores directly.
package api
