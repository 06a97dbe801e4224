// Package events publishes session changes to interested components.
//
// Components that depend on the session tier (quota policy, upload and
// flashcard gates, the summarization client's credentials) subscribe to a
// SessionEmitter instead of reading ambient state, and are told explicitly
// when a user logs in or out.
package events
