// Package monitor runs the local monitoring loop of guardian-monitor.
//
// Every cycle takes one reading from a source, evaluates it with an alert
// latch and reports transitions to the configured sinks. A summary report is
// logged when the session ends.
package monitor
