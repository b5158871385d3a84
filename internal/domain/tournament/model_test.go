package tournament

import "testing"

func TestDefaultLayout(t *testing.T) {
	t.Parallel()

	layout := DefaultLayout()
	if got := len(layout.Teams()); got != 6 {
		t.Fatalf("expected 6 teams, got %d", got)
	}

	g, ok := layout.Group("a")
	if !ok || g.Name != "A" || g.Teams[0] != "Real Madrid" {
		t.Fatalf("unexpected group lookup: %+v ok=%v", g, ok)
	}
	if _, ok := layout.Group("C"); ok {
		t.Fatalf("group C should not exist")
	}

	if !layout.HasTeam("Chelsea") || layout.HasTeam("chelsea") {
		t.Fatalf("team match must be exact")
	}
	if name, ok := layout.GroupOf("Barcelona"); !ok || name != "B" {
		t.Fatalf("expected Barcelona in B, got %q", name)
	}
}
