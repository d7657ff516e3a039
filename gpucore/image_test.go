package gpucore

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestIntersectModifiersPicksFirstRequestedMatch(t *testing.T) {
	requested := []uint64{5, 2, 9}
	supported := []uint64{9, 2}

	got, ok := intersectModifiers(requested, supported)
	if !ok {
		t.Fatalf("intersectModifiers: expected a match")
	}
	if got != 2 {
		t.Errorf("intersectModifiers() = %d, want 2 (first requested modifier also supported)", got)
	}
}

func TestIntersectModifiersNoOverlap(t *testing.T) {
	if _, ok := intersectModifiers([]uint64{1, 2}, []uint64{3, 4}); ok {
		t.Errorf("intersectModifiers: expected no match")
	}
}

func newTestGpu(t *testing.T) *Gpu {
	t.Helper()
	g, err := Create(nil, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(g.Destroy)
	return g
}

func TestImageImportExportDmabufDupsPlaneFDs(t *testing.T) {
	g := newTestGpu(t)

	r, w, err := pipeFDs()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer unix.Close(r)
	defer unix.Close(w)

	img, err := g.ImageImportDmabuf(DmaParams{
		Planes:   []DmaPlane{{FD: r, Offset: 0, Stride: 4096}},
		Modifier: 7,
		Format:   FormatABGR8888,
		Extent:   Extent{Width: 64, Height: 64},
	}, ImageUsageTexture)
	if err != nil {
		t.Fatalf("ImageImportDmabuf: %v", err)
	}

	exported, err := g.ImageExportDmabuf(img)
	if err != nil {
		t.Fatalf("ImageExportDmabuf: %v", err)
	}
	if len(exported.Planes) != 1 {
		t.Fatalf("exported %d planes, want 1", len(exported.Planes))
	}
	if exported.Planes[0].FD == r {
		t.Errorf("exported fd should be a dup, not the original plane fd")
	}
	unix.Close(exported.Planes[0].FD)

	if exported.Modifier != 7 {
		t.Errorf("exported modifier = %d, want 7", exported.Modifier)
	}

	img.Release()
}

func TestImageReleaseIsIdempotent(t *testing.T) {
	g := newTestGpu(t)

	r, w, err := pipeFDs()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer unix.Close(r)
	defer unix.Close(w)

	img, err := g.ImageImportDmabuf(DmaParams{
		Planes: []DmaPlane{{FD: r}},
		Format: FormatABGR8888,
		Extent: Extent{Width: 32, Height: 32},
	}, ImageUsageTexture)
	if err != nil {
		t.Fatalf("ImageImportDmabuf: %v", err)
	}

	img.Release()
	img.Release() // must not double-close or panic
}

func TestImageImportDmabufRejectsTooManyPlanes(t *testing.T) {
	g := newTestGpu(t)
	planes := make([]DmaPlane, 5)
	if _, err := g.ImageImportDmabuf(DmaParams{Planes: planes}, ImageUsageTexture); err == nil {
		t.Errorf("ImageImportDmabuf with 5 planes should fail")
	}
}

func pipeFDs() (r, w int, err error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return 0, 0, err
	}
	return fds[0], fds[1], nil
}
