package areas_test

import (
	"testing"

	"github.com/nyashahama/dengue-assessment-console/internal/areas"
)

func TestAreasFor_KnownDistrictKeepsOrder(t *testing.T) {
	got := areas.AreasFor("Rangpur")
	want := []string{"Badarganj", "Gangachara", "Kaunia", "Mithapukur", "Pirgacha", "Pirganj", "Rangpur Sadar", "Taraganj"}
	if len(got) != len(want) {
		t.Fatalf("got %d areas, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAreasFor_UnknownDistrictIsEmpty(t *testing.T) {
	for _, d := range []string{"", "Atlantis", "dhaka"} {
		got := areas.AreasFor(d)
		if got == nil || len(got) != 0 {
			t.Errorf("AreasFor(%q) = %v, want empty non-nil slice", d, got)
		}
	}
}

func TestAreasFor_ReturnsCopy(t *testing.T) {
	got := areas.AreasFor("Dhaka")
	got[0] = "mutated"
	if areas.AreasFor("Dhaka")[0] != "Adabor" {
		t.Error("mutating the returned slice changed the reference table")
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		district, area string
		want           bool
	}{
		{"Dhaka", "Mirpur", true},
		{"Chittagong", "Chawkbazar", true},
		{"Dhaka", "Agrabad", false},
		{"Nowhere", "Mirpur", false},
		{"Dhaka", "", false},
	}
	for _, tt := range tests {
		if got := areas.Contains(tt.district, tt.area); got != tt.want {
			t.Errorf("Contains(%q, %q) = %v, want %v", tt.district, tt.area, got, tt.want)
		}
	}
}

func TestDistricts(t *testing.T) {
	ds := areas.Districts()
	if len(ds) != 8 || ds[0] != "Dhaka" {
		t.Fatalf("unexpected districts: %v", ds)
	}
	for _, d := range ds {
		if len(areas.AreasFor(d)) == 0 {
			t.Errorf("district %q has no areas", d)
		}
	}
}
