// Package scenarios holds the six example schedules from the sched test
// suite (S1-S6) as reusable, self-contained definitions, so the same worker
// bodies back both the property tests in pkg/sched and the detcon CLI demo.
package scenarios

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/kbrannigan/detcon/pkg/sched"
)

// Scenario is one runnable demonstration: a fresh set of worker bodies, the
// schedule that defines it, and a way to read back its observable result
// once that schedule (or any other) has run to completion.
type Scenario struct {
	Name string
	Desc string
	// Bodies is fresh every time New is built; never share a Scenario's
	// Bodies across two Schedulers.
	Bodies []sched.Body
	// Canonical drives a Scheduler built from Bodies through the exact
	// schedule this scenario is defined by.
	Canonical func(s *sched.Scheduler)
	// Result summarizes the scenario's observable state. Only meaningful
	// after the Scheduler has run to completion and been joined.
	Result func() string
}

// New builds one fresh instance of the named scenario, or false if name
// isn't one of s1..s6.
func New(name string) (*Scenario, bool) {
	for _, build := range []func() *Scenario{S1, S2, S3, S4, S5, S6} {
		sc := build()
		if sc.Name == name {
			return sc, true
		}
	}
	return nil, false
}

// Names lists the built-in scenario names, in the order they demonstrate.
func Names() []string {
	return []string{"s1", "s2", "s3", "s4", "s5", "s6"}
}

// S1 demonstrates two workers printing interleaved characters under a fixed
// switch order: the first prints '0' then '1'; the second prints '2' then
// '3', each yielding once in between.
func S1() *Scenario {
	var mu sync.Mutex
	var out []byte
	print := func(b byte) {
		mu.Lock()
		out = append(out, b)
		mu.Unlock()
	}
	body := func(ctx *sched.WorkerContext, a, b byte) {
		print(a)
		ctx.Yield()
		print(b)
	}
	return &Scenario{
		Name: "s1",
		Desc: "two workers printing interleaved characters under a fixed schedule",
		Bodies: []sched.Body{
			func(ctx *sched.WorkerContext) { body(ctx, '0', '1') },
			func(ctx *sched.WorkerContext) { body(ctx, '2', '3') },
		},
		Canonical: func(s *sched.Scheduler) {
			s.SwitchContextTo(1)
			s.SwitchContextTo(0)
			s.SwitchContextTo(0)
			s.SwitchContextTo(1)
		},
		Result: func() string { return fmt.Sprintf("output=%q", string(out)) },
	}
}

// S2 demonstrates 10 workers each appending their own index, driven in
// reverse order.
func S2() *Scenario {
	var mu sync.Mutex
	var v []int
	n := 10
	bodies := make([]sched.Body, n)
	for i := 0; i < n; i++ {
		i := i
		bodies[i] = func(ctx *sched.WorkerContext) {
			mu.Lock()
			v = append(v, i)
			mu.Unlock()
		}
	}
	return &Scenario{
		Name:   "s2",
		Desc:   "10 workers appending their own index, launched in reverse order",
		Bodies: bodies,
		Canonical: func(s *sched.Scheduler) {
			for i := n - 1; i >= 0; i-- {
				s.SwitchContextTo(i)
			}
		},
		Result: func() string { return fmt.Sprintf("v=%v", v) },
	}
}

// S3 demonstrates 4 workers, two bodies shared pairwise, each pushing a
// before-value, yielding, then pushing an after-value.
func S3() *Scenario {
	var mu sync.Mutex
	beforeF1, afterF1 := []int{}, []int{}
	beforeF2, afterF2 := []int{}, []int{}

	f1 := func(ctx *sched.WorkerContext, before, after int) {
		mu.Lock()
		beforeF1 = append(beforeF1, before)
		mu.Unlock()
		ctx.Yield()
		mu.Lock()
		afterF1 = append(afterF1, after)
		mu.Unlock()
	}
	f2 := func(ctx *sched.WorkerContext, before, after int) {
		mu.Lock()
		beforeF2 = append(beforeF2, before)
		mu.Unlock()
		ctx.Yield()
		mu.Lock()
		afterF2 = append(afterF2, after)
		mu.Unlock()
	}

	return &Scenario{
		Name: "s3",
		Desc: "4 workers pushing a before-value, yielding, then an after-value, in two pairs",
		Bodies: []sched.Body{
			func(ctx *sched.WorkerContext) { f1(ctx, 0, 1) },
			func(ctx *sched.WorkerContext) { f1(ctx, 2, 3) },
			func(ctx *sched.WorkerContext) { f2(ctx, 4, 5) },
			func(ctx *sched.WorkerContext) { f2(ctx, 6, 7) },
		},
		Canonical: func(s *sched.Scheduler) {
			s.SwitchContextTo(1, 2)
			s.SwitchContextTo(0, 3)
			s.SwitchContextTo(1, 3)
			s.SwitchContextTo(0, 2)
		},
		Result: func() string {
			return fmt.Sprintf("beforeF1=%v afterF1=%v beforeF2=%v afterF2=%v",
				beforeF1, afterF1, beforeF2, afterF2)
		},
	}
}

// S4 demonstrates 5 workers contending on one external mutex; the driver
// releases exactly one contender onto the mutex at a time, so acquisition
// order is fully under the driver's control regardless of sync.Mutex's own
// (unspecified) fairness under contention.
func S4() *Scenario {
	var mu sync.Mutex
	var pushMu sync.Mutex
	var pushed []int
	order := []int{2, 0, 4, 1, 3}

	n := 5
	bodies := make([]sched.Body, n)
	for i := 0; i < n; i++ {
		i := i
		bodies[i] = func(ctx *sched.WorkerContext) {
			ctx.Lock(&mu)
			ctx.Yield()
			pushMu.Lock()
			pushed = append(pushed, i)
			pushMu.Unlock()
			mu.Unlock()
		}
	}

	return &Scenario{
		Name: "s4",
		Desc: "5 workers contending on one external mutex, released one at a time",
		Bodies: bodies,
		Canonical: func(s *sched.Scheduler) {
			prev := -1
			for i, k := range order {
				// Wait would return while k is still passing through
				// WaitingExternal, so poll for Waiting instead: k then holds
				// the mutex and is parked in its Yield.
				if i == 0 {
					s.Proceed(k)
					s.WaitUntilStatus(sched.Waiting, k)
				} else {
					s.Proceed(k)
					s.WaitUntilLocked(&mu)
					s.WaitUntilStatus(sched.WaitingExternal, k)
					s.SwitchContextTo(prev)
					s.WaitUntilOneStatus(sched.Waiting, k)
				}
				prev = k
			}
			s.SwitchContextTo(prev)
		},
		Result: func() string {
			match := reflect.DeepEqual(pushed, order)
			return fmt.Sprintf("pushed=%v released=%v matches=%v", pushed, order, match)
		},
	}
}

// S5 demonstrates two workers alternating six rounds of record-then-yield:
// each records its step, then yields unless it was the last round, so six
// SwitchContextTo rounds both produce the full trace and drive both workers
// to Finished (a yield after the last record would leave both parked
// forever instead of returning).
func S5() *Scenario {
	var mu sync.Mutex
	var trace []int
	body := func(ctx *sched.WorkerContext, id int) {
		for i := 0; i < 6; i++ {
			mu.Lock()
			trace = append(trace, id)
			mu.Unlock()
			if i < 5 {
				ctx.Yield()
			}
		}
	}
	return &Scenario{
		Name: "s5",
		Desc: "two workers alternating six rounds of record-then-yield",
		Bodies: []sched.Body{
			func(ctx *sched.WorkerContext) { body(ctx, 0) },
			func(ctx *sched.WorkerContext) { body(ctx, 1) },
		},
		Canonical: func(s *sched.Scheduler) {
			for round := 0; round < 6; round++ {
				s.SwitchContextTo(0)
				s.SwitchContextTo(1)
			}
		},
		Result: func() string { return fmt.Sprintf("trace=%v", trace) },
	}
}

// S6 demonstrates a worker that returns immediately; a stray tick or wait
// issued after it has finished must not hang.
func S6() *Scenario {
	return &Scenario{
		Name:   "s6",
		Desc:   "a worker that finishes immediately; a stray tick after must be a no-op",
		Bodies: []sched.Body{func(ctx *sched.WorkerContext) {}},
		Canonical: func(s *sched.Scheduler) {
			s.SwitchContextTo(0)
			s.Proceed(0) // no-op, worker already Finished
			s.Wait(0)    // returns immediately
		},
		Result: func() string { return "reached Finished with no hang" },
	}
}
