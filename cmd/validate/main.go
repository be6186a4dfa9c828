package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/directive"
	"github.com/jwebster45206/realm-engine/pkg/engine"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/storage"
	"gopkg.in/yaml.v3"
)

const usage = `Usage:
  %[1]s world <preset.yaml>...     check world presets
  %[1]s directives <file|->        lint the tags in a narrator reply
`

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "world", "worlds":
		err = validateWorlds(os.Args[2:])
	case "directives":
		err = lintDirectives(os.Args[2], os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}
}

func validateWorlds(files []string) error {
	var failed []string
	for _, f := range files {
		fmt.Printf("Validating %s...\n", f)
		if err := validateWorldFile(f); err != nil {
			failed = append(failed, err.Error())
			continue
		}
		fmt.Println("  ok")
	}
	if len(failed) > 0 {
		return errors.New(strings.Join(failed, "\n"))
	}
	return nil
}

var worldFilename = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*\.ya?ml$`)

// WorldValidator collects every problem in one preset instead of stopping at
// the first.
type WorldValidator struct {
	errors []string
}

func (v *WorldValidator) addf(format string, args ...any) {
	v.errors = append(v.errors, "  - "+fmt.Sprintf(format, args...))
}

func validateWorldFile(filename string) error {
	base := filepath.Base(filename)
	if !worldFilename.MatchString(base) {
		return fmt.Errorf("world filename '%s' must be lowercase with - or _ separators and a .yaml extension", base)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var w storage.World
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&w); err != nil {
		return fmt.Errorf("file %s failed strict YAML decoding: %w", filename, err)
	}

	v := &WorldValidator{}
	v.validateWorld(&w)
	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *WorldValidator) validateWorld(w *storage.World) {
	if strings.TrimSpace(w.Name) == "" {
		v.addf("name is required")
	}
	if strings.TrimSpace(w.Config.PlayerName) == "" {
		v.addf("world.playerName is required")
	}
	if strings.TrimSpace(w.Opening) == "" {
		v.addf("opening is empty; the game would start without narration")
	}
	if len(w.Progression.Realms) == 0 {
		// Presets may rely on the built-in ladder.
		return
	}
	if err := w.Progression.Validate(); err != nil {
		v.addf("progression: %v", err)
		return
	}

	// Opening directives must apply cleanly to a fresh game.
	_, tags := directive.Extract(w.Opening)
	if len(tags) == 0 {
		return
	}
	kb := state.NewKnowledgeBase(w.Config, w.Progression)
	res, err := engine.ApplyDirectives(kb, tags, kb.PlayerStats.Turn, engine.DefaultConfig())
	if err != nil {
		v.addf("opening directives: %v", err)
		return
	}
	for _, n := range res.Notifications {
		if n.Diagnostic() {
			v.addf("opening: %s", n.Text)
		}
	}
}

// lintDirectives reports every tag in a reply and how it decodes. It fails
// when any tag is malformed or unrecognized.
func lintDirectives(path string, out io.Writer) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	prose, tags := directive.Extract(string(data))
	fmt.Fprintf(out, "%d tag(s), %d character(s) of prose\n", len(tags), len([]rune(prose)))

	bad := 0
	for i, tag := range tags {
		d, err := directive.Decode(tag)
		switch {
		case err != nil:
			bad++
			fmt.Fprintf(out, "%3d  ERROR  %v\n", i+1, err)
		default:
			if u, ok := d.(directive.Unrecognized); ok {
				bad++
				fmt.Fprintf(out, "%3d  WARN   unrecognized tag %s\n", i+1, u.Name)
				continue
			}
			fmt.Fprintf(out, "%3d  ok     %s\n", i+1, d.Kind())
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d tag(s) would be rejected", bad, len(tags))
	}
	return nil
}
