// Package shaders provides embedded GLSL shader sources.
package shaders

import (
	_ "embed"
	"fmt"
	"os"
)

// PhongVertexShader is the vertex shader for lit meshes.
//
//go:embed phong.vert
var PhongVertexShader string

// PhongFragmentShader is the fragment shader for lit meshes.
//
//go:embed phong.frag
var PhongFragmentShader string

// Sources returns the vertex and fragment sources. A non-empty path replaces
// the embedded source of that stage with the file's contents.
func Sources(vertexPath, fragmentPath string) (vertex, fragment string, err error) {
	vertex, fragment = PhongVertexShader, PhongFragmentShader
	if vertexPath != "" {
		if vertex, err = readSource(vertexPath); err != nil {
			return "", "", err
		}
	}
	if fragmentPath != "" {
		if fragment, err = readSource(fragmentPath); err != nil {
			return "", "", err
		}
	}
	return vertex, fragment, nil
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read shader: %w", err)
	}
	return string(data), nil
}
