package control

import "testing"

func TestLineFramerSingleChunk(t *testing.T) {
	f := &lineFramer{}
	lines := f.feed([]byte("250 OK\r\n650 CIRC 1 BUILT\r\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "250 OK" || lines[1] != "650 CIRC 1 BUILT" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestLineFramerPartialChunks(t *testing.T) {
	f := &lineFramer{}

	lines := f.feed([]byte("250 O"))
	if len(lines) != 0 {
		t.Fatalf("expected no lines from a partial chunk, got %v", lines)
	}

	lines = f.feed([]byte("K\r\n"))
	if len(lines) != 1 || lines[0] != "250 OK" {
		t.Fatalf("unexpected lines after completion: %v", lines)
	}
}

func TestLineFramerSplitAcrossCRLF(t *testing.T) {
	f := &lineFramer{}

	lines := f.feed([]byte("250 OK\r"))
	if len(lines) != 0 {
		t.Fatalf("expected no lines with a dangling CR, got %v", lines)
	}

	lines = f.feed([]byte("\n"))
	if len(lines) != 1 || lines[0] != "250 OK" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestLineFramerMultipleLinesOneLineShort(t *testing.T) {
	f := &lineFramer{}
	lines := f.feed([]byte("250-version=1\r\n250 OK\r\n650 STREAM"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 complete lines, got %d: %v", len(lines), lines)
	}

	lines = f.feed([]byte(" 1 NEW 0 example.com:80\r\n"))
	if len(lines) != 1 || lines[0] != "650 STREAM 1 NEW 0 example.com:80" {
		t.Fatalf("unexpected tail-joined line: %v", lines)
	}
}
