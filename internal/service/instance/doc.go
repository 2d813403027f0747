// Package instance guards against running two copies of a binary on one host.
package instance
