package sched

// ReplayDriver re-drives a Scheduler through a previously recorded tick
// order, turning a failing interleaving found once — by hand, by
// RandomDriver, or by a fuzzer — into a deterministic regression test.
type ReplayDriver struct {
	sched *Scheduler
	trace []Event
}

// NewReplayDriver loads a trace saved by a Recorder and prepares to re-drive
// sched through the same KindTick order.
func NewReplayDriver(sched *Scheduler, file string) (*ReplayDriver, error) {
	trace, err := LoadTrace(file)
	if err != nil {
		return nil, err
	}
	return &ReplayDriver{sched: sched, trace: trace}, nil
}

// Run re-issues SwitchContextTo(index) for every KindTick event in the
// loaded trace, in the order it was recorded. Events of any other kind are
// ignored: they were the Scheduler's own record of what a tick caused, not
// an instruction to the driver.
func (d *ReplayDriver) Run() {
	for _, e := range d.trace {
		if e.Kind != KindTick {
			continue
		}
		d.sched.SwitchContextTo(e.Index)
	}
}
