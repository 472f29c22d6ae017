// Package api serves the server-rendered task list pages. Handlers decode
// form posts into typed commands, call the services, and answer with either
// a rendered template or a 303 redirect. Errors are mapped to status codes
// and safe messages in errors.go.
package api
