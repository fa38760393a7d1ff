// Package task runs bulk FAQ generation jobs in the background.
//
// The Runner owns a small worker pool fed by an in-memory queue of job
// IDs; the durable job row in bulk_jobs carries all other coordination
// (status, progress, cancellation). The BulkGenerationJob executor drives
// one job to a terminal state: it walks the shop's target products, calls
// the per-product FAQ service, and checkpoints cancellation between items
// by re-reading the job row. Jobs orphaned by a crash or restart are
// failed at startup so their shops' active slots free up.
package task
