// Package job tracks the lifecycle of the single background search the CLI
// runs at a time and turns its progress into a sequenced event stream.
package job
