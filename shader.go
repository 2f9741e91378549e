package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// loadShader compiles one shader stage from a file.
func loadShader(shaderFilePath string, shaderType uint32) (uint32, error) {
	source, err := os.ReadFile(shaderFilePath)
	if err != nil {
		return 0, fmt.Errorf("read shader: %w", err)
	}

	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(string(source) + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile %s: %s", filepath.Base(shaderFilePath), strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

// newProgram links the "<name>.vert" and "<name>.frag" files in dir.
func newProgram(dir, name string) (uint32, error) {
	vert, err := loadShader(filepath.Join(dir, name+".vert"), gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)
	frag, err := loadShader(filepath.Join(dir, name+".frag"), gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DetachShader(prog, vert)
	gl.DetachShader(prog, frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link %s: %s", name, strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}

// uniform looks a uniform up by name; -1 when prog is 0 or lacks it.
func uniform(prog uint32, name string) int32 {
	if prog == 0 {
		return -1
	}
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}
