package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"luminacraft/perf"
	"luminacraft/world"
)

const (
	hudCanvas   = 512
	hudFontSize = 16
	hudRefresh  = 250 * time.Millisecond
)

// hud rasterises the debug overlay with freetype into one texture and draws
// it as a screen-space quad.
type hud struct {
	ctx *freetype.Context
	dst *image.RGBA

	vao, vbo uint32
	texture  uint32
	program  uint32

	projLoc, modelLoc int32

	lastRefresh time.Time
}

// Sets up the freetype context on a transparent canvas. A missing font file
// falls back to the bundled Go font.
func newHUD(shaderDir, fontPath string) (*hud, error) {
	fontData, err := os.ReadFile(fontPath)
	if err != nil {
		fontData = goregular.TTF
	}
	ttf, err := freetype.ParseFont(fontData)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	prog, err := newProgram(shaderDir, "text")
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, hudCanvas, hudCanvas))
	ctx := freetype.NewContext()
	ctx.SetFont(ttf)
	ctx.SetFontSize(hudFontSize)
	ctx.SetDst(dst)
	ctx.SetClip(dst.Bounds())
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	h := &hud{
		ctx:      ctx,
		dst:      dst,
		program:  prog,
		projLoc:  uniform(prog, "projection"),
		modelLoc: uniform(prog, "model"),
	}
	h.initQuad()
	h.initTexture()
	return h, nil
}

func (h *hud) initQuad() {
	vertices := []float32{
		0, 1, 0, 0, 1, // top-left
		0, 0, 0, 0, 0, // bottom-left
		1, 0, 0, 1, 0, // bottom-right

		0, 1, 0, 0, 1,
		1, 0, 0, 1, 0,
		1, 1, 0, 1, 1,
	}
	gl.GenVertexArrays(1, &h.vao)
	gl.BindVertexArray(h.vao)
	gl.GenBuffers(1, &h.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 5*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 5*4, 3*4)
	gl.BindVertexArray(0)
}

func (h *hud) initTexture() {
	gl.GenTextures(1, &h.texture)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, hudCanvas, hudCanvas, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(h.dst.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}

// hudLines formats the overlay text.
func hudLines(frames *perf.FrameCounter, usage perf.Usage, stats world.Stats, region *world.Region) []string {
	pos := region.Player().Position()
	cam := region.Player().Camera()
	return []string{
		fmt.Sprintf("FPS: %.1f (%.2f ms)", frames.FPS(), float64(frames.FrameTime().Microseconds())/1000),
		fmt.Sprintf("Chunks: %d loaded, %d rendered, %d loading", stats.NumChunks, stats.NumChunksRendered, stats.ChunksLoading),
		fmt.Sprintf("Queue: %d queued, %d in flight", stats.Queued, stats.InFlight),
		fmt.Sprintf("Position: %.1f, %.1f, %.1f", pos.X(), pos.Y(), pos.Z()),
		fmt.Sprintf("Chunk: %v", region.CurrentChunk()),
		fmt.Sprintf("Yaw: %.1f  Pitch: %.1f  Sprinting: %t", cam.Yaw(), cam.Pitch(), cam.Sprinting()),
		fmt.Sprintf("Frustum culling: %t", region.FrustumCulling()),
		usage.String(),
	}
}

// refresh redraws the canvas when the refresh interval has passed.
func (h *hud) refresh(now time.Time, lines []string) error {
	if now.Sub(h.lastRefresh) < hudRefresh {
		return nil
	}
	h.lastRefresh = now

	draw.Draw(h.dst, h.dst.Bounds(), &image.Uniform{C: color.Transparent}, image.Point{}, draw.Src)
	lineHeight := h.ctx.PointToFixed(hudFontSize * 1.5)
	pt := fixed.Point26_6{X: fixed.I(8), Y: lineHeight}
	for _, line := range lines {
		if _, err := h.ctx.DrawString(line, pt); err != nil {
			return fmt.Errorf("draw hud text: %w", err)
		}
		pt.Y += lineHeight
	}

	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, hudCanvas, hudCanvas, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(h.dst.Pix))
	return nil
}

// draw places the canvas at the top-left corner of a width x height screen.
func (h *hud) draw(width, height int) {
	if h == nil {
		return
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	gl.UseProgram(h.program)
	projection := mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
	gl.UniformMatrix4fv(h.projLoc, 1, false, &projection[0])
	model := mgl32.Scale3D(hudCanvas, hudCanvas, 1)
	gl.UniformMatrix4fv(h.modelLoc, 1, false, &model[0])

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.BindVertexArray(h.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
}

func (h *hud) delete() {
	if h == nil {
		return
	}
	gl.DeleteTextures(1, &h.texture)
	gl.DeleteBuffers(1, &h.vbo)
	gl.DeleteVertexArrays(1, &h.vao)
	gl.DeleteProgram(h.program)
}
