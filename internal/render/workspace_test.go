package render

import (
	"os"
	"testing"
)

func TestAcquireWorkspace_UniqueAndReleased(t *testing.T) {
	base := t.TempDir()

	ws1, err := acquireWorkspace(base)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	ws2, err := acquireWorkspace(base)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if ws1.dir == ws2.dir {
		t.Fatalf("expected distinct workspace dirs, both %q", ws1.dir)
	}

	ws1.release()
	ws2.release()
	if _, err := os.Stat(ws1.dir); !os.IsNotExist(err) {
		t.Fatalf("expected workspace removed, stat err %v", err)
	}

	// releasing an already-removed workspace only logs
	ws1.release()
}

func TestAcquireWorkspace_InvalidBase(t *testing.T) {
	if _, err := acquireWorkspace("/dev/null/not-a-dir"); err == nil {
		t.Fatalf("expected error for invalid base dir")
	}
}
