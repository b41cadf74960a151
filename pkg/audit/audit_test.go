package audit

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := NewLogger(buf)
	l.hostname = "web1"
	l.pid = 42
	l.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return l
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	logger.Log(VerifyEvent{
		Kind:          "app",
		Subject:       "alice",
		ClientIP:      "10.0.0.1",
		TransactionID: "tx-1",
		Success:       true,
	})

	want := `<86>1 2026-10-19T12:00:00.000Z web1 webauth 42 verify [auth@32473 kind="app" user="alice"][client@32473 ip="10.0.0.1"][transaction@32473 id="tx-1"] alice presented a valid app token` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected record\n got: %q\nwant: %q", got, want)
	}
}

func TestVerifyEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   VerifyEvent
		wantMsg string
		wantSev Severity
		wantSD  string
	}{
		{
			name:    "accepted",
			event:   VerifyEvent{Kind: "app", Subject: "alice", Success: true},
			wantMsg: "alice presented a valid app token",
			wantSev: SeverityInfo,
			wantSD:  `[auth@32473 kind="app" user="alice"]`,
		},
		{
			name:    "refused with reason",
			event:   VerifyEvent{Kind: "id", ClientIP: "::1", ErrorMessage: "token expired"},
			wantMsg: "id token refused: token expired",
			wantSev: SeverityWarning,
			wantSD:  `[auth@32473 kind="id"][client@32473 ip="::1"]`,
		},
		{
			name:    "refused without reason",
			event:   VerifyEvent{Kind: "id"},
			wantMsg: "id token refused",
			wantSev: SeverityWarning,
			wantSD:  `[auth@32473 kind="id"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Message(); got != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.event.Severity(); got != tt.wantSev {
				t.Errorf("Severity() = %d, want %d", got, tt.wantSev)
			}
			if got := tt.event.Facility(); got != FacilityAuthPriv {
				t.Errorf("Facility() = %d, want %d", got, FacilityAuthPriv)
			}
			if got := formatStructuredData(tt.event.StructuredData()); got != tt.wantSD {
				t.Errorf("structured data = %q, want %q", got, tt.wantSD)
			}
		})
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `"plain"`},
		{`a"b`, `"a\"b"`},
		{`a]b`, `"a\]b"`},
		{`a\b`, `"a\\b"`},
	}
	for _, tt := range tests {
		if got := escapeSDValue(tt.in); got != tt.want {
			t.Errorf("escapeSDValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Log(VerifyEvent{Kind: "app"})
}

func TestOpen(t *testing.T) {
	l, closer, err := Open("")
	if err != nil || l != nil {
		t.Fatalf("Open(\"\") = %v, %v; want nil logger", l, err)
	}
	_ = closer.Close()

	path := filepath.Join(t.TempDir(), "audit.log")
	l, closer, err = Open(path)
	if err != nil {
		t.Fatalf("Open(%q): %v", path, err)
	}
	l.Log(VerifyEvent{Kind: "app", Subject: "bob", Success: true})
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "bob presented a valid app token") {
		t.Errorf("audit file missing record: %q", data)
	}
}
