package observability

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

func TestTime_LogsSuccessAndFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	var err error
	Time(logger, "aggregate")(&err)
	if !strings.Contains(buf.String(), `op="aggregate"`) {
		t.Errorf("expected op name in log, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "err=") {
		t.Errorf("expected no error in log, got %q", buf.String())
	}

	buf.Reset()
	err = errors.New("boom")
	Time(logger, "load")(&err)
	if !strings.Contains(buf.String(), "err=boom") {
		t.Errorf("expected error in log, got %q", buf.String())
	}
}

func TestTime_NilLogger(t *testing.T) {
	Time(nil, "noop")(nil)
}
