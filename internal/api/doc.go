// Package api handles incoming HTTP requests for tasks, request validation,
// and response formatting. It acts as an adapter between clients and the
// task service, translating service error kinds into HTTP status codes.
package api
