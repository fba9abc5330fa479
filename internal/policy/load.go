package policy

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load decodes one YAML policy document from r. Unknown fields are rejected
// and the result is validated.
//
//	name: embedded-arm
//	systemDirs: [/lib, /usr/lib]
//	systemLibraries: ["libc.so*", "ld-linux*.so*"]
//	runtimeLibraries: ["libstdc++.so*"]
//	bundleSuppliesRuntime: true
func Load(r io.Reader) (Policy, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Policy
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return Policy{}, ErrInvalidPolicy.Errorf("empty document")
		}
		return Policy{}, ErrInvalidPolicy.Wrap(fmt.Errorf("decode: %w", err))
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// LoadFile reads a policy from the YAML file at path. A policy without a name
// is named after the file.
func LoadFile(path string) (Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return Policy{}, fmt.Errorf("open policy file: %w", err)
	}
	defer f.Close()

	p, err := Load(f)
	if err != nil {
		return Policy{}, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = path
	}
	return p, nil
}
