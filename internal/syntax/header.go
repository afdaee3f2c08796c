package syntax

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// header holds the only keys the registry reads from a definition.
type header struct {
	Name   string `yaml:"name"`
	Scope  string `yaml:"scope"`
	Hidden bool   `yaml:"hidden"`
}

// DecodeHeader reads name, scope and hidden from a definition's source.
func DecodeHeader(resourcePath string, data []byte) (Syntax, error) {
	var h header
	if err := yaml.Unmarshal(stripDirectives(data), &h); err != nil {
		return Syntax{}, fmt.Errorf("%s: failed to decode header: %w", resourcePath, err)
	}
	name := h.Name
	if name == "" {
		name = DefaultName(resourcePath)
	}
	return Syntax{
		Path:   resourcePath,
		Name:   name,
		Scope:  h.Scope,
		Hidden: h.Hidden,
	}, nil
}

// stripDirectives drops leading "%YAML 1.2" style lines, which the decoder
// does not need.
func stripDirectives(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	for bytes.HasPrefix(data, []byte("%")) {
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			return nil
		}
		data = data[nl+1:]
	}
	return data
}
