package descriptor

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

const (
	EnvironmentVariablesKey        = "EnvironmentVariables"
	TestingEnvironmentVariablesKey = "TestingEnvironmentVariables"
	TestConfigurationsKey          = "TestConfigurations"
	TestTargetsKey                 = "TestTargets"
)

// TargetPath addresses a node of a descriptor that can carry its own
// EnvironmentVariables map, as a dotted key path.
type TargetPath string

// Field returns the dotted key path of a field below the target.
func (p TargetPath) Field(names ...string) string {
	return strings.Join(append([]string{string(p)}, names...), ".")
}

// Targets yields every injectable target of a decoded descriptor.
//
// Top-level keys are visited in sorted order and keys starting with "_" are
// metadata, never targets. A top-level map that holds an environment map is a
// target on its own. Entries of TestConfigurations[i].TestTargets are all
// yielded without inspecting their shape. Anything else is skipped.
func Targets(root *Value) iter.Seq[TargetPath] {
	return func(yield func(TargetPath) bool) {
		for _, key := range root.Keys() {
			if strings.HasPrefix(key, "_") {
				continue
			}
			node, _ := root.Get(key)
			if isSingleTarget(node) {
				if !yield(TargetPath(key)) {
					return
				}
				continue
			}
			if key != TestConfigurationsKey {
				continue
			}
			configs, ok := node.AsSequence()
			if !ok {
				continue
			}
			for i, cfg := range configs {
				testTargets, _ := cfg.Get(TestTargetsKey)
				entries, ok := testTargets.AsSequence()
				if !ok {
					continue
				}
				for j := range entries {
					path := TargetPath(strings.Join([]string{
						TestConfigurationsKey, strconv.Itoa(i), TestTargetsKey, strconv.Itoa(j),
					}, "."))
					if !yield(path) {
						return
					}
				}
			}
		}
	}
}

// CollectTargets drains Targets into a slice.
func CollectTargets(root *Value) []TargetPath {
	return slices.Collect(Targets(root))
}

func isSingleTarget(node *Value) bool {
	return node.Has(EnvironmentVariablesKey) || node.Has(TestingEnvironmentVariablesKey)
}

func splitKeyPath(keyPath string) []string {
	return strings.Split(keyPath, ".")
}
