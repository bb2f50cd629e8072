// Package api provides the HTTP handlers for the review engine: auth,
// card management, review sessions, and insights. Handlers translate
// between wire models and the service layer, and map internal errors to
// sanitized HTTP responses.
package api
