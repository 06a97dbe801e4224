// Package api adapts HTTP requests to the study, todo and user services.
// Handlers read the request session from the context, call one service
// operation and translate the outcome, including errors, into JSON.
package api
