package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/render"
	"github.com/milk9111/skirmish/sprites"
)

const viewSize = 512

// viewer plays one sequence of a sheet; arrow keys change the direction.
type viewer struct {
	lib      *sprites.Library
	sheet    string
	sequence string
	dir      common.Direction
	frames   []sprites.Frame
	ticksPer int
	current  int
	tick     int
}

func (v *viewer) load() {
	v.frames, _ = v.lib.FramesFor(v.sheet, v.sequence, v.dir)
	v.ticksPer = v.lib.TicksPerFrame(v.sheet, v.sequence)
	v.current, v.tick = 0, 0
}

func (v *viewer) Update() error {
	keys := map[ebiten.Key]common.Direction{
		ebiten.KeyArrowUp:    common.North,
		ebiten.KeyArrowDown:  common.South,
		ebiten.KeyArrowLeft:  common.West,
		ebiten.KeyArrowRight: common.East,
	}
	for key, d := range keys {
		if inpututil.IsKeyJustPressed(key) && d != v.dir {
			v.dir = d
			v.load()
		}
	}
	if len(v.frames) <= 1 {
		return nil
	}
	v.tick++
	if v.tick >= v.ticksPer {
		v.tick = 0
		v.current = (v.current + 1) % len(v.frames)
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x00, 0x00, 0x00, 0xff})
	status := fmt.Sprintf("%s/%s facing %s: %d frames", v.sheet, v.sequence, v.dir, len(v.frames))
	if len(v.frames) > 0 {
		f := v.frames[v.current]
		img, err := render.LoadImage(f.Image)
		if err != nil {
			status += "\n" + err.Error()
		} else {
			sub := img.SubImage(render.FrameRect(f)).(*ebiten.Image)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(4, 4)
			op.GeoM.Translate(float64(viewSize-4*f.W)/2, float64(viewSize-4*f.H)/2)
			op.Filter = ebiten.FilterNearest
			screen.DrawImage(sub, op)
		}
	}
	ebitenutil.DebugPrint(screen, status)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewSize, viewSize
}

func main() {
	sheet := flag.String("sheet", "white_missile", "sheet name from prefabs/sheets.yaml")
	sequence := flag.String("seq", "fly", "sequence name")
	dir := flag.String("dir", "south", "initial facing")
	flag.Parse()

	lib, err := sprites.LoadLibrary()
	if err != nil {
		log.Fatal(err)
	}
	if _, ok := lib.Sequence(*sheet, *sequence); !ok {
		log.Fatalf("sheetview: no sequence %s/%s; sheets: %s", *sheet, *sequence, strings.Join(lib.Names(), ", "))
	}
	d, err := common.ParseDirection(*dir)
	if err != nil {
		log.Fatal(err)
	}

	v := &viewer{lib: lib, sheet: *sheet, sequence: *sequence, dir: d}
	v.load()
	ebiten.SetWindowSize(viewSize, viewSize)
	ebiten.SetWindowTitle("sheetview")
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
