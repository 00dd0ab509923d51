// Package sched is a deterministic cooperative scheduler for worker
// goroutines. A driver goroutine composes a fixed set of workers and
// releases them one rendezvous at a time: a worker never runs unless the
// driver explicitly ticks it, and once released it runs only until it
// yields back or blocks on a real external lock. This turns an inherently
// nondeterministic concurrent program into a reproducible, step-by-step
// trace, which is what property tests over arbitrary interleavings need.
package sched
