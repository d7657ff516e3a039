package gpucore

import (
	"errors"
	"testing"
)

func TestCreateAlwaysRequestsRequiredFeatures(t *testing.T) {
	g, err := Create(nil, []Feature{FeatureValidation})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer g.Destroy()

	if g.GetQueue(QueueGraphics) == nil {
		t.Errorf("GetQueue(QueueGraphics) returned nil")
	}
	if g.GetQueue(QueueTransfer) == nil {
		t.Errorf("GetQueue(QueueTransfer) returned nil")
	}
	if g.GetQueue(QueueGraphics) == g.GetQueue(QueueTransfer) {
		t.Errorf("graphics and transfer queues should be distinct singletons")
	}
}

func TestCreateFailsWithInitializationErrorWhenFeatureUnsupported(t *testing.T) {
	const unsupported Feature = "does_not_exist_on_any_device"

	_, err := Create(nil, []Feature{unsupported})
	if err == nil {
		t.Fatalf("Create: expected error for unsupported feature %q, got nil", unsupported)
	}
	if !errors.Is(err, ErrInitialization) {
		t.Errorf("Create: error = %v, want it to wrap ErrInitialization", err)
	}
}

func TestQueueTypeString(t *testing.T) {
	cases := map[QueueType]string{
		QueueGraphics: "graphics",
		QueueTransfer: "transfer",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", typ, got, want)
		}
	}
}
