package progression

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a progression table. An empty realm list is allowed and
// disables progression; duplicate realm names are not.
func ParseYAML(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("failed to parse progression table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// LoadYAML reads a progression table from disk.
func LoadYAML(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read progression file %s: %w", path, err)
	}
	return ParseYAML(data)
}

// Validate checks the table for names that would make realm strings ambiguous.
func (t Table) Validate() error {
	seen := make(map[string]bool, len(t.Realms))
	for i, r := range t.Realms {
		if strings.TrimSpace(r) == "" {
			return fmt.Errorf("realm %d has an empty name", i)
		}
		if seen[r] {
			return fmt.Errorf("realm %q is listed twice", r)
		}
		seen[r] = true
	}
	for name := range t.TierStats {
		if !seen[name] {
			return fmt.Errorf("tier stats given for unknown realm %q", name)
		}
	}
	if len(t.SubTiers) != 0 && len(t.SubTiers) != SubTierCount {
		return fmt.Errorf("subTiers must list exactly %d names, got %d", SubTierCount, len(t.SubTiers))
	}
	return nil
}
