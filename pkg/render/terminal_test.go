package render

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestFramebufferDrawHalfBlocks(t *testing.T) {
	fb := newTestFramebuffer(t, 3, 4)
	top, bottom := RGB(255, 0, 0), RGB(0, 0, 255)
	fb.SetPixel(1, 2, top, 0)
	fb.SetPixel(1, 3, bottom, 0)

	scr := uv.NewScreenBuffer(5, 3)
	fb.Draw(scr, uv.Rect(1, 0, 3, 2))

	cell := scr.CellAt(2, 1)
	if cell == nil || cell.Content != "▀" {
		t.Fatalf("cell = %+v, want half block", cell)
	}
	if cell.Style.Fg != top || cell.Style.Bg != bottom {
		t.Errorf("fg, bg = %v, %v, want %v, %v", cell.Style.Fg, cell.Style.Bg, top, bottom)
	}
	if c := scr.CellAt(1, 0); c.Style.Fg != ColorBlack || c.Style.Bg != ColorBlack {
		t.Errorf("background cell = %+v", c)
	}
	// Column 0 lies outside the area.
	if c := scr.CellAt(0, 0); c.Content == "▀" {
		t.Error("drew outside the target area")
	}
}

func TestTerminalRendererFramebufferSize(t *testing.T) {
	r := NewTerminalRenderer(uv.NewScreenBuffer(80, 24), 80, 24)
	if w, h := r.FramebufferSize(); w != 80 || h != 48 {
		t.Errorf("FramebufferSize = %dx%d, want 80x48", w, h)
	}
	r = NewTerminalRenderer(uv.NewScreenBuffer(1, 1), 0, -3)
	if w, h := r.FramebufferSize(); w != 1 || h != 2 {
		t.Errorf("FramebufferSize = %dx%d, want 1x2", w, h)
	}
}

func TestTerminalRendererStatus(t *testing.T) {
	scr := uv.NewScreenBuffer(10, 3)
	r := NewTerminalRenderer(scr, 10, 3)
	w, h := r.FramebufferSize()
	fb := newTestFramebuffer(t, w, h)
	fb.Clear(ColorWhite)

	r.SetStatus("fps 30")
	r.Render(fb)
	if c := scr.CellAt(0, 2); c.Content != "f" {
		t.Errorf("status cell = %q, want %q", c.Content, "f")
	}
	if c := scr.CellAt(0, 1); c.Content != "▀" || c.Style.Fg != ColorWhite {
		t.Errorf("frame cell = %+v", c)
	}

	r.SetStatus("")
	r.Render(fb)
	if c := scr.CellAt(0, 2); c.Content != "▀" {
		t.Errorf("hidden status left %q on the last row", c.Content)
	}
}

func TestTerminalRendererFlushBuffer(t *testing.T) {
	r := NewTerminalRenderer(uv.NewScreenBuffer(2, 2), 2, 2)
	if err := r.Flush(); err != nil {
		t.Errorf("Flush on a plain buffer: %v", err)
	}
}
