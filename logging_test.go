package wroc

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestSetLoggerReconfiguresLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	Logger().Info("hello")
	if buf.Len() == 0 {
		t.Fatalf("SetLogger did not take effect")
	}
}
