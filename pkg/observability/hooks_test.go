package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopResolveHooks{}
	r.OnResolveStart(ctx, "com.example:app:1.0")
	r.OnResolveComplete(ctx, "com.example:app:1.0", 12, time.Second, nil)
	r.OnUpgrade(ctx, "com.example:lib", "1.0", "1.1")

	a := NoopAssembleHooks{}
	a.OnAssembleStart(ctx, "app.jar")
	a.OnEntry(ctx, "lib/lib-1.1.jar", 1024)
	a.OnAssembleComplete(ctx, "app.jar", 7, time.Second, nil)

	s := NoopStageHooks{}
	s.OnStageStart(ctx, "resolve")
	s.OnStageComplete(ctx, "resolve", time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Resolve() should return NoopResolveHooks by default")
	}
	if _, ok := Assemble().(NoopAssembleHooks); !ok {
		t.Error("Assemble() should return NoopAssembleHooks by default")
	}
	if _, ok := Stage().(NoopStageHooks); !ok {
		t.Error("Stage() should return NoopStageHooks by default")
	}

	customResolve := &testResolveHooks{}
	SetResolveHooks(customResolve)
	if Resolve() != customResolve {
		t.Error("SetResolveHooks should set custom hooks")
	}

	customAssemble := &testAssembleHooks{}
	SetAssembleHooks(customAssemble)
	if Assemble() != customAssemble {
		t.Error("SetAssembleHooks should set custom hooks")
	}

	customStage := &testStageHooks{}
	SetStageHooks(customStage)
	if Stage() != customStage {
		t.Error("SetStageHooks should set custom hooks")
	}

	Reset()
	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Reset() should restore NoopResolveHooks")
	}
	if _, ok := Stage().(NoopStageHooks); !ok {
		t.Error("Reset() should restore NoopStageHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testResolveHooks{}
	SetResolveHooks(custom)
	SetResolveHooks(nil)

	if Resolve() != custom {
		t.Error("SetResolveHooks(nil) should be ignored")
	}
}

type testResolveHooks struct{ NoopResolveHooks }
type testAssembleHooks struct{ NoopAssembleHooks }
type testStageHooks struct{ NoopStageHooks }
