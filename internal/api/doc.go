// Package api implements the HTTP handlers for the creative studio API:
// authentication, brief parsing, the product catalog, asynchronous
// content generation with an SSE status stream, and chat conversations.
package api
