package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DocumentFromBytes decodes a YAML document into a Document.
func DocumentFromBytes(data []byte) (Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode YAML document: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return Document(raw), nil
}

// LoadDocument reads and decodes a YAML configuration file.
func LoadDocument(filePath string) (Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	doc, err := DocumentFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filePath, err)
	}
	return doc, nil
}
