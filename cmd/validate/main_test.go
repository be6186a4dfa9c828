package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestValidateWorldFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		content  string
		wantErr  string
	}{
		{
			name:     "valid with default ladder",
			filename: "thanh_van.yaml",
			content: `name: Thanh Vân Giới
world:
  playerName: Lâm Phong
opening: Ngươi tỉnh dậy dưới chân núi.
`,
		},
		{
			name:     "bad filename",
			filename: "ThanhVan.yaml",
			content:  "name: x\n",
			wantErr:  "must be lowercase",
		},
		{
			name:     "unknown field",
			filename: "extra.yaml",
			content:  "name: x\nplayer: y\n",
			wantErr:  "strict YAML",
		},
		{
			name:     "missing player and opening",
			filename: "empty-player.yaml",
			content:  "name: Hư Không\n",
			wantErr:  "playerName is required",
		},
		{
			name:     "duplicate realm",
			filename: "dup.yaml",
			content: `name: Trùng
world:
  playerName: A
opening: Bắt đầu.
progression:
  realms: [Luyện Khí, Luyện Khí]
`,
			wantErr: "listed twice",
		},
		{
			name:     "opening with unknown directive",
			filename: "bad_opening.yaml",
			content: `name: Lỗi
world:
  playerName: A
opening: "Bắt đầu. [FOO_BAR: x=1]"
`,
			wantErr: "FOO_BAR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.filename, tt.content)
			err := validateWorldFile(path)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLintDirectives(t *testing.T) {
	dir := t.TempDir()

	good := writeFile(t, dir, "good.txt", "Ngươi nhặt được linh thạch. [STATS_UPDATE: linhThach=+100]")
	var out bytes.Buffer
	if err := lintDirectives(good, &out); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "1 tag(s)") {
		t.Errorf("expected tag count in output, got %q", out.String())
	}

	bad := writeFile(t, dir, "bad.txt", "Có gì đó. [FOO_BAR: x=1] [STATS_UPDATE: turn=+1]")
	out.Reset()
	err := lintDirectives(bad, &out)
	if err == nil {
		t.Fatal("expected error for unrecognized tag")
	}
	if !strings.Contains(out.String(), "FOO_BAR") {
		t.Errorf("expected FOO_BAR in report, got %q", out.String())
	}
	if !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("unexpected error: %v", err)
	}

	if err := lintDirectives(filepath.Join(dir, "missing.txt"), &out); err == nil {
		t.Error("expected error for missing file")
	}
}
