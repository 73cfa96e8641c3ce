package descriptor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"howett.net/plist"

	"ddtest/internal/domain"
	"ddtest/internal/process"
)

// FieldWriter performs a point write of a string value into a descriptor file.
type FieldWriter interface {
	SetString(ctx context.Context, file, keyPath, value string) error
}

// NativeWriter edits descriptors in-process and keeps their on-disk format
// (XML, binary or OpenStep).
type NativeWriter struct{}

// NewNativeWriter creates a new NativeWriter
func NewNativeWriter() *NativeWriter {
	return &NativeWriter{}
}

// SetString writes value at keyPath. Missing intermediate maps are created;
// sequence indices must already exist.
func (w *NativeWriter) SetString(ctx context.Context, file, keyPath, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("stat descriptor: %w", err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read descriptor: %w", err)
	}

	var root any
	format, err := plist.Unmarshal(data, &root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrMalformedDescriptor, file, err)
	}

	root, err = setPath(root, splitKeyPath(keyPath), value)
	if err != nil {
		return fmt.Errorf("set %s: %w", keyPath, err)
	}

	var out []byte
	if format == plist.XMLFormat {
		out, err = plist.MarshalIndent(root, format, "\t")
	} else {
		out, err = plist.Marshal(root, format)
	}
	if err != nil {
		return fmt.Errorf("encode descriptor: %w", err)
	}

	return writeFileAtomic(file, out, info.Mode().Perm())
}

func setPath(node any, segments []string, value string) (any, error) {
	if len(segments) == 0 {
		return value, nil
	}
	seg, rest := segments[0], segments[1:]

	switch n := node.(type) {
	case map[string]any:
		child, ok := n[seg]
		if !ok && len(rest) > 0 {
			child = map[string]any{}
		}
		updated, err := setPath(child, rest, value)
		if err != nil {
			return nil, err
		}
		n[seg] = updated
		return n, nil
	case []any:
		idx, err := strconv.Atoi(seg)
		if err != nil {
			return nil, fmt.Errorf("segment %q is not a sequence index", seg)
		}
		if idx < 0 || idx >= len(n) {
			return nil, fmt.Errorf("index %d out of range (len %d)", idx, len(n))
		}
		updated, err := setPath(n[idx], rest, value)
		if err != nil {
			return nil, err
		}
		n[idx] = updated
		return n, nil
	}
	return nil, fmt.Errorf("cannot descend into %T at %q", node, seg)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	return os.Rename(tmpName, path)
}

// PlutilWriter delegates each write to `plutil -replace` (macOS only).
type PlutilWriter struct {
	runner process.Runner
	tool   string
}

// NewPlutilWriter creates a new PlutilWriter
func NewPlutilWriter(runner process.Runner) *PlutilWriter {
	return &PlutilWriter{runner: runner, tool: "plutil"}
}

// SetString runs one plutil invocation per field.
func (w *PlutilWriter) SetString(ctx context.Context, file, keyPath, value string) error {
	_, err := w.runner.Run(ctx, process.Command{
		Name:      w.tool,
		Args:      []string{"-replace", keyPath, "-string", value, file},
		Sensitive: true,
	})
	return err
}
