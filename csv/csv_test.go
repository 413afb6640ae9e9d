package csv

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"golang.org/x/xerrors"
)

type record []string

func (r record) Record() []string {
	return r
}

func TestRecorder(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf)

	rec := record{"2022-03-14T15:09:26Z", "v2.1", "THGR228N", "139", "2", "21.5", "74", "true"}
	if err := enc.Encode(rec); err != nil {
		t.Fatalf("%+v\n", err)
	}

	if got := strings.TrimSpace(buf.String()); got != strings.Join(rec, ",") {
		t.Fatalf("%q\n", got)
	}
}

func TestRecorderNil(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf)

	if err := enc.Encode(nil); err == nil {
		t.Fatalf("%+v\n", err)
	}
}

type nonRecorder struct{}

func TestNonRecorder(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf)

	err := enc.Encode(nonRecorder{})

	var runtimeErr runtime.Error
	if !xerrors.As(err, &runtimeErr) {
		t.Fatalf("%+v\n", runtimeErr)
	}
}
