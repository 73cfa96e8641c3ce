package descriptor

import (
	"fmt"
	"os"

	"howett.net/plist"

	"ddtest/internal/domain"
)

// Decode reads a descriptor file in any property-list format.
func Decode(path string) (*Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedDescriptor, path, err)
	}
	root, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedDescriptor, path, err)
	}
	return root, nil
}

// DecodeBytes decodes an in-memory property list. The root must be a map.
func DecodeBytes(data []byte) (*Value, error) {
	var raw any
	if _, err := plist.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	root, err := fromPlist(raw)
	if err != nil {
		return nil, err
	}
	if !root.IsMap() {
		return nil, fmt.Errorf("root is a %s, expected a map", root.Kind())
	}
	return root, nil
}
