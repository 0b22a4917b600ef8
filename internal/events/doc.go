// Package events provides a lightweight in-process event system that
// decouples services from the background task machinery. Services emit
// TaskRequestEvents; a registered handler turns them into queued tasks.
package events
