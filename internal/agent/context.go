package agent

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hpungsan/floorplan/internal/floorplan"
	"github.com/hpungsan/floorplan/internal/geometry"
)

// Summarize renders doc as markdown for grounding the next agent turn.
//
// The output depends only on doc: elements appear in document order with
// numbers fixed to one decimal, so identical documents always render
// byte-identically.
func Summarize(doc *floorplan.Floorplan) string {
	if doc == nil {
		return "# Floorplan\n\nNo floorplan loaded.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Floorplan: %s\n\n", doc.Name)
	fmt.Fprintf(&b, "- Units: %s\n", doc.Units)
	fmt.Fprintf(&b, "- Scale: %s px/in\n", num(doc.Scale))
	fmt.Fprintf(&b, "- Grid: %s in\n", num(doc.GridSize))
	c := doc.Counts()
	fmt.Fprintf(&b, "- Elements: %d walls, %d doors, %d windows, %d rooms, %d furniture\n",
		c.Walls, c.Doors, c.Windows, c.Rooms, c.Furniture)

	if len(doc.Walls) > 0 {
		b.WriteString("\n## Walls\n\n")
		for _, w := range doc.Walls {
			fmt.Fprintf(&b, "- `%s`: %s to %s, length %s, thickness %s\n",
				w.ID, pt(w.Start), pt(w.End), num(w.Length()), num(w.Thickness))
		}
	}

	if len(doc.Doors) > 0 {
		b.WriteString("\n## Doors\n\n")
		for _, d := range doc.Doors {
			fmt.Fprintf(&b, "- `%s`: on `%s` at %s%s, width %s",
				d.ID, d.WallID, percent(d.Position), location(doc, d.WallID, d.Position), num(d.Width))
			if d.SwingDirection != "" {
				fmt.Fprintf(&b, ", swings %s", d.SwingDirection)
			}
			if d.SwingInward != nil {
				if *d.SwingInward {
					b.WriteString(" inward")
				} else {
					b.WriteString(" outward")
				}
			}
			b.WriteString("\n")
		}
	}

	if len(doc.Windows) > 0 {
		b.WriteString("\n## Windows\n\n")
		for _, w := range doc.Windows {
			fmt.Fprintf(&b, "- `%s`: on `%s` at %s%s, %s x %s\n",
				w.ID, w.WallID, percent(w.Position), location(doc, w.WallID, w.Position), num(w.Width), num(w.Height))
		}
	}

	if len(doc.Rooms) > 0 {
		b.WriteString("\n## Rooms\n\n")
		for _, r := range doc.Rooms {
			fmt.Fprintf(&b, "- `%s`: %s", r.ID, r.Name)
			if r.Type != "" {
				fmt.Fprintf(&b, " (%s)", r.Type)
			}
			if len(r.WallIDs) > 0 {
				ids := make([]string, len(r.WallIDs))
				for i, id := range r.WallIDs {
					ids[i] = "`" + id + "`"
				}
				fmt.Fprintf(&b, ", walls %s", strings.Join(ids, ", "))
			}
			b.WriteString("\n")
		}
	}

	if len(doc.Furniture) > 0 {
		b.WriteString("\n## Furniture\n\n")
		for _, f := range doc.Furniture {
			fmt.Fprintf(&b, "- `%s`: %s", f.ID, f.Type)
			if f.Label != "" {
				fmt.Fprintf(&b, " \"%s\"", f.Label)
			}
			fmt.Fprintf(&b, " at %s, %s x %s, rotation %s\n", pt(f.Position), num(f.Width), num(f.Height), num(f.Rotation))
		}
	}

	return b.String()
}

// location renders where along its wall an opening sits, or notes the wall
// is missing.
func location(doc *floorplan.Floorplan, wallID string, position float64) string {
	w, ok := doc.FindWall(wallID)
	if !ok {
		return " (wall missing)"
	}
	return " " + pt(w.PointAt(position))
}

func pt(p geometry.Point) string {
	return "(" + num(p.X) + ", " + num(p.Y) + ")"
}

func percent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 0, 64) + "%"
}

// num formats v with one decimal. Negative zero prints as 0.0.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}
