package theme

import "testing"

func TestUseSwitchesPalette(t *testing.T) {
	t.Cleanup(func() { Use(Dark) })

	Use(ByName("light"))
	if Name != "light" || Primary != Light.Primary || Text != Light.Text {
		t.Fatalf("light palette not applied: name=%q", Name)
	}
	if Title.GetForeground() != Light.Primary {
		t.Fatal("styles not rebuilt for light palette")
	}

	Use(ByName("anything-else"))
	if Name != "dark" || Primary != Dark.Primary {
		t.Fatalf("expected dark fallback, got %q", Name)
	}
}
