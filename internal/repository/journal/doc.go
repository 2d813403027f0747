// Package journal persists alert events for audit.
//
// The FileRepository appends every raised and cleared event to a JSON-lines
// file and lists them back. It never restores latch state.
package journal
