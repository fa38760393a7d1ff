// Package generation defines the boundary between the application core and
// the external text-generation provider. It contains the FAQGenerator
// interface, the provider response shapes, and the errors generators
// return. Concrete implementations live under internal/platform (e.g. the
// Gemini-backed generator).
package generation
