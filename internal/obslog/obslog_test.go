package obslog

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestSetNilRestoresSilentDefault(t *testing.T) {
	var buf bytes.Buffer
	Set(slog.New(slog.NewTextHandler(&buf, nil)))
	Get().Info("should be captured")
	if buf.Len() == 0 {
		t.Fatalf("logger installed via Set did not write anything")
	}

	Set(nil)
	buf.Reset()
	Get().Info("should not be captured")
	if buf.Len() != 0 {
		t.Errorf("Set(nil) did not restore the silent default: got %q", buf.String())
	}
}

func TestGetReturnsInstalledLogger(t *testing.T) {
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	Set(l)
	if Get() != l {
		t.Errorf("Get() did not return the logger passed to Set")
	}
	Set(nil)
}
