// Package gemini provides an implementation of the generation.FAQGenerator
// interface that uses Google's Gemini API for generating multilingual FAQ
// content from catalog product data.
//
// This package is an infrastructure adapter: it translates between the
// application's domain models and the Gemini API without exposing the
// details of the external service to the core application. It handles
// prompt templating, retry with exponential backoff for transient errors,
// safety-filter handling, and parsing of the model's JSON output
// (including markdown-fenced payloads the model sometimes emits).
package gemini
