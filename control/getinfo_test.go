package control

import (
	"errors"
	"testing"
)

func TestValidateGetInfoKeysUnknown(t *testing.T) {
	err := validateGetInfoKeys([]string{"not-a-real-key"})
	var unknown *ErrUnknownKey
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownKey, got %v (%T)", err, err)
	}
}

func TestValidateGetInfoKeysUnsupported(t *testing.T) {
	err := validateGetInfoKeys([]string{"entry-guards"})
	var unsupported *ErrUnsupportedKey
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected ErrUnsupportedKey, got %v (%T)", err, err)
	}
}

func TestValidateGetInfoKeysDeprecated(t *testing.T) {
	err := validateGetInfoKeys([]string{"helper-nodes"})
	var deprecated *ErrDeprecatedKey
	if !errors.As(err, &deprecated) {
		t.Fatalf("expected ErrDeprecatedKey, got %v (%T)", err, err)
	}
}

func TestValidateGetInfoKeysAllOrNothing(t *testing.T) {
	// A bad key anywhere in the batch fails the whole request, even when
	// preceded by good ones.
	err := validateGetInfoKeys([]string{"version", "bogus-key"})
	if err == nil {
		t.Fatal("expected an error for a batch containing an unknown key")
	}
}

func TestLookupCapabilityPrefixMatch(t *testing.T) {
	entry, ok := lookupCapability("ns/id/ABCD1234")
	if !ok {
		t.Fatal("expected ns/id/ prefix to match")
	}
	if entry.kind != kindNSEntry {
		t.Fatalf("expected kindNSEntry, got %v", entry.kind)
	}
}

func TestFormatGetInfo(t *testing.T) {
	got := formatGetInfo([]string{"version", "fingerprint"})
	want := "getinfo version fingerprint"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractKVEntriesSingleLine(t *testing.T) {
	entries, err := extractKVEntries([]string{"250-version=0.4.8.10", "250 OK"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].key != "version" || entries[0].value != "0.4.8.10" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestExtractKVEntriesMultiLine(t *testing.T) {
	lines := []string{
		"250+ns/id/ABCD=",
		"r nick ABCD digest 2024-01-01 00:00:00 1.2.3.4 9001 0",
		".",
		"250 OK",
	}
	entries, err := extractKVEntries(lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].key != "ns/id/ABCD" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	want := "r nick ABCD digest 2024-01-01 00:00:00 1.2.3.4 9001 0"
	if entries[0].value != want {
		t.Fatalf("got body %q, want %q", entries[0].value, want)
	}
}

func TestExtractKVEntriesUnterminatedMultiLine(t *testing.T) {
	_, err := extractKVEntries([]string{"250+ns/id/ABCD=", "r nick ABCD"})
	if err == nil {
		t.Fatal("expected an error for an unterminated multi-line entry")
	}
}

func TestParseNSEntry(t *testing.T) {
	raw := "r nick ABCD1234 digest 2024-01-01 00:00:00 5.6.7.8 9001 0"
	ns, err := parseNSEntry(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ns.Nickname != "nick" || ns.IP != "5.6.7.8" {
		t.Fatalf("unexpected ns entry: %+v", ns)
	}
}

func TestParseGetInfoReplyMultipleKeys(t *testing.T) {
	reply := parseReply("250-version=0.4.8.10\r\n250-fingerprint=ABCD1234\r\n250 OK")
	values, err := parseGetInfoReply([]string{"version", "fingerprint"}, reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values["version"].String != "0.4.8.10" {
		t.Fatalf("unexpected version value: %+v", values["version"])
	}
	if values["fingerprint"].String != "ABCD1234" {
		t.Fatalf("unexpected fingerprint value: %+v", values["fingerprint"])
	}
}

func TestParseGetInfoReplyMissingKey(t *testing.T) {
	reply := parseReply("250-version=0.4.8.10\r\n250 OK")
	_, err := parseGetInfoReply([]string{"version", "fingerprint"}, reply)
	if err == nil {
		t.Fatal("expected an error when a requested key is missing from the reply")
	}
}

func TestParseGetInfoReplyPropagatesProtocolError(t *testing.T) {
	reply := parseReply("552 Unrecognized key \"bogus\"")
	_, err := parseGetInfoReply([]string{"bogus"}, reply)
	if err == nil {
		t.Fatal("expected the reply's protocol error to propagate")
	}
}

func TestSortedKeysDeterministic(t *testing.T) {
	m := map[string]Value{"b": {}, "a": {}, "c": {}}
	got := sortedKeys(m)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
