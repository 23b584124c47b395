package render

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/shape"
)

func assertGolden(t *testing.T, name string, s *core.Screen) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(Legend(s)))
}

func TestDrawStage(t *testing.T) {
	screen := core.NewScreen(12, 6)
	shapes := []*shape.Shape{
		shape.New().Square(12, 6).MoveToLayer(-1).Fill(core.ColorSky),
		shape.New().Square(12, 1).At(0, 5).Fill(core.ColorBrown),
		shape.New().Square(3, 2).At(2, 2).Fill(core.ColorRed),
		shape.New().Circle(4).At(7, 0).MoveToLayer(2).Fill(core.ColorBlue),
	}

	Draw(screen, shapes)
	assertGolden(t, "stage", screen)
}

func TestDrawLayerOrderNotSliceOrder(t *testing.T) {
	screen := core.NewScreen(2, 1)
	top := shape.New().Square(2, 1).MoveToLayer(5).Fill(core.ColorGreen)
	bottom := shape.New().Square(2, 1).MoveToLayer(1).Fill(core.ColorRed)

	Draw(screen, []*shape.Shape{top, bottom})

	if got := Legend(screen); got != "gg" {
		t.Errorf("Legend() = %q, expected the higher layer on top", got)
	}
}

func TestDrawStroke(t *testing.T) {
	screen := core.NewScreen(4, 5)
	s := shape.New().Square(4, 4).Fill(core.ColorRed).Stroke(1, core.ColorYellow)

	Draw(screen, []*shape.Shape{s})
	assertGolden(t, "stroke", screen)
}

func TestDrawClipsAndSkipsTransparent(t *testing.T) {
	screen := core.NewScreen(3, 3)
	screen.DrawText(0, 1, "hi", core.ColorDefault)
	shapes := []*shape.Shape{
		shape.New().Square(10, 10).At(-5, -5).Fill(core.ColorGold),
		shape.New().Square(3, 3),
	}

	Draw(screen, shapes)

	expected := "ddd\nddd\nddd"
	if got := Legend(screen); got != expected {
		t.Errorf("Legend() = %q, expected %q", got, expected)
	}
}
