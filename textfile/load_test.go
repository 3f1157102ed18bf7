package textfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/rope"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func tmpTextFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "text.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err.Error())
	}
	return path
}

func TestLoadSmallFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rope")
	defer teardown()
	//
	content := "Hello World\nsecond line\n"
	path := tmpTextFile(t, content)
	text, err := Load(path, 0, 0)
	if err != nil {
		t.Fatal(err.Error())
	}
	if text.Len() != uint64(len(content)) {
		t.Errorf("rope length = %d, want %d", text.Len(), len(content))
	}
	if text.String() != content {
		t.Errorf("rope content = %q", text.String())
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := tmpTextFile(t, "")
	text, err := Load(path, 0, 0)
	if err != nil {
		t.Fatal(err.Error())
	}
	if !text.IsEmpty() {
		t.Errorf("expected an empty rope")
	}
}

func TestLoadFragmented(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rope")
	defer teardown()
	//
	content := strings.Repeat("0123456789", 100) // 1000 bytes
	path := tmpTextFile(t, content)
	text, err := Load(path, 0, 64)
	if err != nil {
		t.Fatal(err.Error())
	}
	if text.Len() != 1000 {
		t.Errorf("rope length = %d", text.Len())
	}
	if text.FragmentCount() != 16 {
		t.Errorf("expected 16 fragments, got %d", text.FragmentCount())
	}
	if text.String() != content {
		t.Errorf("content mismatch after fragmented load")
	}
}

func TestLoadWithInitialPosAtEnd(t *testing.T) {
	content := strings.Repeat("abcdefgh", 64) // 512 bytes
	path := tmpTextFile(t, content)
	text, err := Load(path, -1, 64)
	if err != nil {
		t.Fatal(err.Error())
	}
	// reading the trailing fragment blocks until it is loaded
	tail, err := text.Report(text.Len()-8, 8)
	if err != nil {
		t.Fatal(err.Error())
	}
	if tail != "abcdefgh" {
		t.Errorf("tail = %q", tail)
	}
	if text.String() != content {
		t.Errorf("content mismatch")
	}
}

// Load must hand out the rope immediately, without waiting for the
// background loader. Only reads block on not-yet-loaded fragments.
func TestLoadReturnsBeforeLoadingCompletes(t *testing.T) {
	content := strings.Repeat("0123456789abcdef", 64) // 1024 bytes
	path := tmpTextFile(t, content)
	var text rope.Rope
	done := make(chan error)
	go func() {
		var err error
		text, err = Load(path, 0, 64)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err.Error())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Load did not return while fragments were loading")
	}
	if text.Len() != uint64(len(content)) {
		t.Errorf("length = %d", text.Len())
	}
	if text.String() != content {
		t.Errorf("content mismatch")
	}
}

func TestLoadMeasuresLines(t *testing.T) {
	content := strings.Repeat("line one\nline two\n", 32)
	path := tmpTextFile(t, content)
	text, err := Load(path, 0, 64)
	if err != nil {
		t.Fatal(err.Error())
	}
	// measuring blocks until the touched fragments have arrived
	if lines := text.Measure(rope.LineMetric{}); lines != 64 {
		t.Errorf("expected 64 lines, got %d", lines)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "no-such-file.txt"), 0, 0); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
