package control

import "testing"

func feedLines(a *messageAssembler, lines ...string) (msg string, complete bool) {
	for _, l := range lines {
		msg, complete = a.feed(l)
	}
	return msg, complete
}

func TestMessageAssemblerSingleLine(t *testing.T) {
	a := &messageAssembler{}
	msg, complete := feedLines(a, "250 OK")
	if !complete {
		t.Fatal("expected single final line to complete the message")
	}
	if msg != "250 OK" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestMessageAssemblerMultiLineGetInfo(t *testing.T) {
	a := &messageAssembler{}
	lines := []string{
		"250-version=0.4.8.10",
		"250 OK",
	}
	msg, complete := feedLines(a, lines...)
	if !complete {
		t.Fatal("expected multi-line reply to complete on matching final line")
	}
	want := "250-version=0.4.8.10\r\n250 OK"
	if msg != want {
		t.Fatalf("got %q, want %q", msg, want)
	}
}

func TestMessageAssemblerPlusBodyNotFinal(t *testing.T) {
	a := &messageAssembler{}

	for _, l := range []string{"250+ns/id/ABCD=", "r nick ABCD 0 IP 9001 0", "."} {
		if _, complete := a.feed(l); complete {
			t.Fatalf("body line %q should not complete the message", l)
		}
	}

	msg, complete := a.feed("250 OK")
	if !complete {
		t.Fatal("expected final 250 OK line to complete the message")
	}
	want := "250+ns/id/ABCD=\r\nr nick ABCD 0 IP 9001 0\r\n.\r\n250 OK"
	if msg != want {
		t.Fatalf("got %q, want %q", msg, want)
	}
}

func TestMessageAssemblerIntermediateStatusNotFinal(t *testing.T) {
	// An intermediate line matching isFinalLine but with a status prefix
	// that differs from the buffer's first line must not end the message
	// by itself.
	a := &messageAssembler{}
	if _, complete := a.feed("250-first"); complete {
		t.Fatal("first line should never complete on its own")
	}
	if _, complete := a.feed("251 second"); complete {
		t.Fatal("a differently-prefixed final-shaped line must not complete the message")
	}
	msg, complete := a.feed("250 OK")
	if !complete {
		t.Fatal("expected matching-prefix final line to complete the message")
	}
	if msg == "" {
		t.Fatal("expected non-empty message")
	}
}
