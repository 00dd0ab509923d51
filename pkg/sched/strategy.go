package sched

// Observer is notified of every rendezvous event a Scheduler produces.
// OnEvent must never block: a Scheduler is a passive, driver-controlled
// multiplexer, and ordering decisions belong to the drivers in replay.go
// and random.go, which call the Scheduler's own public methods.
type Observer interface {
	OnEvent(Event)
}
