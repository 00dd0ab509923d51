package sched

import "math/rand"

// RandomDriver drives a Scheduler by repeatedly switching context to a
// uniformly-random not-yet-Finished worker until all workers finish. This
// turns a set of worker bodies into a property test over arbitrary
// interleavings: run the same bodies under many seeds and check the
// invariant holds for each.
type RandomDriver struct {
	sched *Scheduler
	rng   *rand.Rand
}

// NewRandomDriver creates a driver seeded for reproducibility: the same
// seed against the same Scheduler bodies always produces the same
// interleaving.
func NewRandomDriver(sched *Scheduler, seed int64) *RandomDriver {
	return &RandomDriver{sched: sched, rng: rand.New(rand.NewSource(seed))}
}

// Run releases random not-yet-finished workers, one SwitchContextTo at a
// time, until every worker has reached Finished.
func (d *RandomDriver) Run() {
	for {
		remaining := d.sched.notFinishedIndices()
		if len(remaining) == 0 {
			return
		}
		d.sched.SwitchContextTo(pick(d.rng, remaining))
	}
}
