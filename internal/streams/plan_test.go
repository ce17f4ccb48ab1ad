package streams_test

import (
	"os"
	"testing"

	"burrow/internal/streams"
)

func TestNewPlanSharedStdinStdoutOpensReadWrite(t *testing.T) {
	plan := streams.NewPlan("/tmp/shared", "/tmp/shared", "/tmp/err")

	if len(plan.Targets) != 2 {
		t.Fatalf("expected 2 unique targets, got %v", plan.Targets)
	}
	shared, ok := plan.TargetFor("/tmp/shared")
	if !ok {
		t.Fatal("shared target missing from plan")
	}
	if shared.Access != streams.ReadWrite {
		t.Fatalf("shared target access = %s, want read-write", shared.Access)
	}
	errTarget, ok := plan.TargetFor("/tmp/err")
	if !ok {
		t.Fatal("stderr target missing from plan")
	}
	if errTarget.Access != streams.WriteOnly {
		t.Fatalf("stderr target access = %s, want write", errTarget.Access)
	}
}

func TestNewPlanAllSlotsSamePath(t *testing.T) {
	plan := streams.NewPlan("/tmp/all", "/tmp/all", "/tmp/all")

	if len(plan.Targets) != 1 {
		t.Fatalf("expected 1 unique target, got %v", plan.Targets)
	}
	if plan.Targets[0].Access != streams.ReadWrite {
		t.Fatalf("access = %s, want read-write", plan.Targets[0].Access)
	}
}

func TestNewPlanDistinctPathsKeepMinimalAccess(t *testing.T) {
	plan := streams.NewPlan("/tmp/in", "/tmp/out", "/tmp/err")

	if len(plan.Targets) != 3 {
		t.Fatalf("expected 3 unique targets, got %v", plan.Targets)
	}
	in, _ := plan.TargetFor("/tmp/in")
	if in.Access != streams.ReadOnly {
		t.Fatalf("stdin access = %s, want read", in.Access)
	}
	out, _ := plan.TargetFor("/tmp/out")
	if out.Access != streams.WriteOnly {
		t.Fatalf("stdout access = %s, want write", out.Access)
	}
}

func TestNewPlanSharedStdoutStderrStaysWriteOnly(t *testing.T) {
	plan := streams.NewPlan("/tmp/in", "/tmp/log", "/tmp/log")

	log, ok := plan.TargetFor("/tmp/log")
	if !ok {
		t.Fatal("log target missing from plan")
	}
	if log.Access != streams.WriteOnly {
		t.Fatalf("shared output access = %s, want write", log.Access)
	}
}

func TestNewPlanDefaultsToNullDevice(t *testing.T) {
	plan := streams.NewPlan("", "", "")

	if plan.Stdin != os.DevNull || plan.Stdout != os.DevNull || plan.Stderr != os.DevNull {
		t.Fatalf("expected null device slots, got %+v", plan)
	}
	if len(plan.Targets) != 1 {
		t.Fatalf("expected a single deduplicated target, got %v", plan.Targets)
	}
	if plan.Targets[0].Access != streams.ReadWrite {
		t.Fatalf("null device access = %s, want read-write", plan.Targets[0].Access)
	}
}
