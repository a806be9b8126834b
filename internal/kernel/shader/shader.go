//go:build ebiten

// Package shader evaluates the life rule on the GPU with an ebiten Kage shader.
// Steps may only run once the ebiten game loop has started.
package shader

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"potlife/internal/core"
)

//go:embed life.kage
var lifeSource []byte

// Source returns the Kage program implementing the rule.
func Source() []byte { return lifeSource }

// Kernel implements core.Kernel with a fragment shader over two images.
type Kernel struct {
	shader   *ebiten.Shader
	src, dst *ebiten.Image
	w, h     int
	uniforms map[string]any
}

var _ core.Kernel = (*Kernel)(nil)

// New compiles the life shader.
func New() (*Kernel, error) {
	s, err := ebiten.NewShader(lifeSource)
	if err != nil {
		return nil, fmt.Errorf("compile life shader: %w", err)
	}
	return &Kernel{shader: s}, nil
}

// Name returns the kernel identifier.
func (k *Kernel) Name() string { return "shader" }

// Configure reallocates the GPU images and sets the alive color uniform.
func (k *Kernel) Configure(width, height int, alive core.LiveColor) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("shader kernel: invalid dimensions %dx%d", width, height)
	}
	if !alive.Opaque() {
		return errors.New("shader kernel: alive color must be opaque")
	}
	k.dispose()
	k.w, k.h = width, height
	k.src = ebiten.NewImage(width, height)
	k.dst = ebiten.NewImage(width, height)
	k.uniforms = map[string]any{
		"AliveColor": []float32{alive[0], alive[1], alive[2], alive[3]},
	}
	return nil
}

// Step uploads src, runs the shader into the destination image and reads the
// result back into dst.
func (k *Kernel) Step(src, dst []byte) error {
	want := k.w * k.h * 4
	if want == 0 {
		return errors.New("shader kernel: not configured")
	}
	if len(src) != want || len(dst) != want {
		return fmt.Errorf("shader kernel: buffer sizes %d/%d, want %d", len(src), len(dst), want)
	}
	k.src.WritePixels(src)
	op := &ebiten.DrawRectShaderOptions{Uniforms: k.uniforms, Blend: ebiten.BlendCopy}
	op.Images[0] = k.src
	k.dst.DrawRectShader(k.w, k.h, k.shader, op)
	k.dst.ReadPixels(dst)
	return nil
}

func (k *Kernel) dispose() {
	if k.src != nil {
		k.src.Dispose()
		k.src = nil
	}
	if k.dst != nil {
		k.dst.Dispose()
		k.dst = nil
	}
}

func init() {
	core.RegisterKernel("shader", func(map[string]string) (core.Kernel, error) {
		return New()
	})
}
