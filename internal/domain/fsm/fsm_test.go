package fsm

import (
	"errors"
	"testing"
)

type state string

type event string

var table = Table[state, event]{
	"IDLE":    {"start": "RUNNING"},
	"RUNNING": {"stop": "IDLE", "finish": "DONE"},
}

func TestTableNext(t *testing.T) {
	to, ok := table.Next("IDLE", "start")
	if !ok || to != "RUNNING" {
		t.Fatalf("expected RUNNING, got %q ok=%v", to, ok)
	}
	if _, ok := table.Next("IDLE", "finish"); ok {
		t.Fatal("finish must not be legal from IDLE")
	}
	if _, ok := table.Next("DONE", "start"); ok {
		t.Fatal("no events are legal from a terminal state")
	}
}

func TestTableCan(t *testing.T) {
	if !table.Can("RUNNING", "stop") {
		t.Fatal("stop must be legal from RUNNING")
	}
	if table.Can("RUNNING", "start") {
		t.Fatal("start must not be legal from RUNNING")
	}
}

func TestTableFire(t *testing.T) {
	to, err := table.Fire("RUNNING", "finish")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if to != "DONE" {
		t.Fatalf("expected DONE, got %q", to)
	}
	if _, err := table.Fire("IDLE", "stop"); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}
