package sched_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/kbrannigan/detcon/pkg/sched"
)

func TestSaveLoadTraceRoundTrip(t *testing.T) {
	want := []sched.Event{
		{Index: 0, Kind: sched.KindTick, Status: sched.Running},
		{Index: 0, Kind: sched.KindYield, Status: sched.Waiting},
		{Index: 1, Kind: sched.KindTick, Status: sched.Running},
		{Index: 1, Kind: sched.KindFinish, Status: sched.Finished},
	}

	file := fmt.Sprintf("%s/trace.jsonl", t.TempDir())
	if err := sched.SaveTrace(file, want); err != nil {
		t.Fatalf("SaveTrace() failed: %v", err)
	}

	got, err := sched.LoadTrace(file)
	if err != nil {
		t.Fatalf("LoadTrace() failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("LoadTrace() = %v, want %v", got, want)
	}
}

func TestLoadTraceMissingFile(t *testing.T) {
	if _, err := sched.LoadTrace("/nonexistent/path/to/trace.jsonl"); err == nil {
		t.Fatal("expected an error loading a nonexistent trace file, got nil")
	}
}

func TestKindString(t *testing.T) {
	cases := map[sched.Kind]string{
		sched.KindTick:       "tick",
		sched.KindYield:      "yield",
		sched.KindLock:       "lock",
		sched.KindLockShared: "lock-shared",
		sched.KindFinish:     "finish",
		sched.Kind(99):       "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
