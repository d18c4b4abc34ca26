package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hpungsan/floorplan/internal/floorplan"
	"github.com/hpungsan/floorplan/internal/geometry"
)

func summaryFixture() *floorplan.Floorplan {
	inward := true
	doc := floorplan.New("Cabin")
	doc.ID = "fp-1"
	doc.Walls = []floorplan.Wall{
		{ID: "wall_a", Start: geometry.Pt(0, 0), End: geometry.Pt(120, 0), Thickness: 6},
		{ID: "wall_b", Start: geometry.Pt(120, 0), End: geometry.Pt(120, 96.26), Thickness: 4.5},
	}
	doc.Doors = []floorplan.Door{
		{ID: "door_a", WallID: "wall_a", Position: 0.5, Width: 32, SwingDirection: "left", SwingInward: &inward},
	}
	doc.Windows = []floorplan.Window{
		{ID: "window_a", WallID: "wall_gone", Position: 0.25, Width: 36, Height: 48},
	}
	doc.Rooms = []floorplan.Room{
		{ID: "room_a", Name: "Main", Type: "living", WallIDs: []string{"wall_a", "wall_b"}},
	}
	doc.Furniture = []floorplan.Furniture{
		{ID: "furn_a", Type: "sofa", Position: geometry.Pt(60, -0.01), Width: 84, Height: 36, Rotation: 90, Label: "Sofa"},
	}
	return doc
}

func TestSummarize_Golden(t *testing.T) {
	want := "# Floorplan: Cabin\n" +
		"\n" +
		"- Units: imperial\n" +
		"- Scale: 1.0 px/in\n" +
		"- Grid: 12.0 in\n" +
		"- Elements: 2 walls, 1 doors, 1 windows, 1 rooms, 1 furniture\n" +
		"\n## Walls\n\n" +
		"- `wall_a`: (0.0, 0.0) to (120.0, 0.0), length 120.0, thickness 6.0\n" +
		"- `wall_b`: (120.0, 0.0) to (120.0, 96.3), length 96.3, thickness 4.5\n" +
		"\n## Doors\n\n" +
		"- `door_a`: on `wall_a` at 50% (60.0, 0.0), width 32.0, swings left inward\n" +
		"\n## Windows\n\n" +
		"- `window_a`: on `wall_gone` at 25% (wall missing), 36.0 x 48.0\n" +
		"\n## Rooms\n\n" +
		"- `room_a`: Main (living), walls `wall_a`, `wall_b`\n" +
		"\n## Furniture\n\n" +
		"- `furn_a`: sofa \"Sofa\" at (60.0, 0.0), 84.0 x 36.0, rotation 90.0\n"

	assert.Equal(t, want, Summarize(summaryFixture()))
}

func TestSummarize_Deterministic(t *testing.T) {
	doc := summaryFixture()
	first := Summarize(doc)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Summarize(doc.Clone()))
	}
}

func TestSummarize_EmptyAndNil(t *testing.T) {
	got := Summarize(floorplan.New("Blank"))
	assert.Contains(t, got, "0 walls, 0 doors, 0 windows, 0 rooms, 0 furniture")
	assert.NotContains(t, got, "## Walls")

	assert.Contains(t, Summarize(nil), "No floorplan loaded")
}
