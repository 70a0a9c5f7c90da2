package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Board hooks
	b := NoopBoardHooks{}
	b.OnCollapse("group", 4)
	b.OnExpand("group", 4)

	// Resolver hooks
	r := NoopResolverHooks{}
	r.OnResolve("group", false)

	// Render hooks
	rd := NoopRenderHooks{}
	rd.OnFrameBegin(1)
	rd.OnFrameEnd(1, 2, time.Second, nil)
	rd.OnRenderStart(ctx, []string{"svg"})
	rd.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "render")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "render", 1024)

	// Store hooks
	s := NoopStoreHooks{}
	s.OnLoad(ctx, "file", "board-1", nil)
	s.OnSave(ctx, "mongo", "board-1", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Board().(NoopBoardHooks); !ok {
		t.Error("Board() should return NoopBoardHooks by default")
	}
	if _, ok := Resolver().(NoopResolverHooks); !ok {
		t.Error("Resolver() should return NoopResolverHooks by default")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	// Set custom hooks
	customBoard := &testBoardHooks{}
	SetBoardHooks(customBoard)
	if Board() != customBoard {
		t.Error("SetBoardHooks should set custom hooks")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Board().(NoopBoardHooks); !ok {
		t.Error("Reset() should restore NoopBoardHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testBoardHooks{}
	SetBoardHooks(custom)

	// Setting nil should be ignored
	SetBoardHooks(nil)

	if Board() != custom {
		t.Error("SetBoardHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testBoardHooks struct{ NoopBoardHooks }
type testRenderHooks struct{ NoopRenderHooks }
type testStoreHooks struct{ NoopStoreHooks }
