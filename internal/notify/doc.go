// Package notify implements the receivers of alert events.
//
// Every sink satisfies alert.Notifier. Failures are logged and never reach the
// latch, so a broken notification target cannot change alert semantics.
package notify
