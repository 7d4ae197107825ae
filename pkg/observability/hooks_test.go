package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	b := NoopBuildHooks{}
	b.OnDiscoverStart(ctx, "build")
	b.OnDiscoverComplete(ctx, "build", 2, 10, time.Second, nil)
	b.OnRenderStart(ctx, "index")
	b.OnRenderComplete(ctx, "index", "base", 1024, time.Millisecond, nil)
	b.OnWrite(ctx, "build/index.html", 1024, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Build().(NoopBuildHooks); !ok {
		t.Error("Build() should return NoopBuildHooks by default")
	}

	custom := &testBuildHooks{}
	SetBuildHooks(custom)
	if Build() != custom {
		t.Error("SetBuildHooks should set custom hooks")
	}

	Reset()
	if _, ok := Build().(NoopBuildHooks); !ok {
		t.Error("Reset() should restore NoopBuildHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testBuildHooks{}
	SetBuildHooks(custom)

	// Setting nil should be ignored
	SetBuildHooks(nil)

	if Build() != custom {
		t.Error("SetBuildHooks(nil) should be ignored")
	}

	Reset()
}

type testBuildHooks struct{ NoopBuildHooks }
