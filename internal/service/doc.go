// Package service coordinates the study pipeline, per-user task lists and
// accounts on top of the domain packages and the stores.
//
// Services take an explicit domain.Session on every call. They never read
// ambient authentication state, so the same service value serves anonymous
// and authenticated callers and applies the tier rules itself.
package service
