// Package domain defines the core business entities of the FAQ generation
// backend: shops (tenants), cached catalog products, generated FAQ records,
// subscription plans, audit log entries, and bulk generation jobs.
package domain
