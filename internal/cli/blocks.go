package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/phaseflow/internal/routine"
)

// blockFile is the YAML layout of a blocks file:
//
//	blocks:
//	  - title: Run
//	    start: "06:00"
//	    end: "07:00"
//	    category: Health
type blockFile struct {
	Blocks []routine.BlockSpec `yaml:"blocks"`
}

// LoadBlockFile reads block definitions from a YAML file. A bare list at
// the top level is accepted as well.
func LoadBlockFile(path string) ([]routine.BlockSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blocks file: %w", err)
	}
	return ParseBlocks(data)
}

func ParseBlocks(data []byte) ([]routine.BlockSpec, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '-' {
		var specs []routine.BlockSpec
		if err := decodeStrict(trimmed, &specs); err != nil {
			return nil, fmt.Errorf("failed to parse blocks file: %w", err)
		}
		return specs, nil
	}

	var f blockFile
	if err := decodeStrict(trimmed, &f); err != nil {
		return nil, fmt.Errorf("failed to parse blocks file: %w", err)
	}
	return f.Blocks, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
