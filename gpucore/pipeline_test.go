package gpucore

import "testing"

func TestReflectWorkgroupSizeWithoutSourceSkipsReflection(t *testing.T) {
	wg, ok := reflectWorkgroupSize("", "main")
	if ok {
		t.Errorf("reflectWorkgroupSize with empty source should report ok=false")
	}
	if wg != ([3]uint32{}) {
		t.Errorf("reflectWorkgroupSize with empty source should return the zero value")
	}
}
