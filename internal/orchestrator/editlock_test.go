package orchestrator_test

import (
	"testing"

	"docscan/internal/doctype"
	"docscan/internal/orchestrator"
	"docscan/internal/session"
	"docscan/internal/testsupport"
)

func TestEditLocksDeliverDirectlyWhenFree(t *testing.T) {
	locks := orchestrator.NewEditLocks()

	files := []session.FileResult{testsupport.Page("001.jpg", doctype.CodeGCNC, 0.9)}
	if !locks.Deliver("/scans/a", files) {
		t.Fatal("unlocked folder should accept results directly")
	}
	if _, ok := locks.Unlock("/scans/a"); ok {
		t.Fatal("nothing should be buffered for an unlocked folder")
	}
}

func TestEditLocksBufferWhileLocked(t *testing.T) {
	locks := orchestrator.NewEditLocks()
	locks.Lock("/scans/a")

	stale := []session.FileResult{testsupport.Page("001.jpg", doctype.CodeUnknown, 0.2)}
	fresh := []session.FileResult{testsupport.Page("001.jpg", doctype.CodeGCNC, 0.9)}

	if locks.Deliver("/scans/a", stale) {
		t.Fatal("locked folder must buffer instead of applying")
	}
	// Last delivery wins.
	if locks.Deliver("/scans/a", fresh) {
		t.Fatal("locked folder must buffer instead of applying")
	}

	buffered, ok := locks.Unlock("/scans/a")
	if !ok {
		t.Fatal("expected buffered results")
	}
	if len(buffered) != 1 || buffered[0].ShortCode != doctype.CodeGCNC {
		t.Fatalf("buffered = %+v", buffered)
	}

	// The lock is gone; a second unlock drains nothing.
	if _, ok := locks.Unlock("/scans/a"); ok {
		t.Fatal("buffer should be empty after unlock")
	}
}

func TestEditLocksScopePerFolder(t *testing.T) {
	locks := orchestrator.NewEditLocks()
	locks.Lock("/scans/a")

	if !locks.Deliver("/scans/b", nil) {
		t.Fatal("lock on one folder must not block another")
	}
	if !locks.Locked("/scans/a") || locks.Locked("/scans/b") {
		t.Fatal("lock state mixed up between folders")
	}
}
