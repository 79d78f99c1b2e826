package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/opencodedocs/internal/db"
	"gopkg.in/yaml.v3"
)

//go:embed default_seed.yaml
var defaultSeed []byte

// SeedEntry 描述一个启动时需要存在的菜单项。
type SeedEntry struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Type      string `yaml:"type"`
	ParentID  string `yaml:"parentId"`
	SortOrder int    `yaml:"sortOrder"`
}

// Seed 是菜单种子文件的内容。
type Seed struct {
	Container string      `yaml:"container"`
	Protected []string    `yaml:"protected"`
	Entries   []SeedEntry `yaml:"entries"`
}

// LoadSeed 读取 YAML 种子文件，path 为空时使用内置默认菜单。
func LoadSeed(path string) (Seed, error) {
	raw := defaultSeed
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		data, err := os.ReadFile(trimmed)
		if err != nil {
			return Seed{}, fmt.Errorf("read seed file: %w", err)
		}
		raw = data
	}
	return ParseSeed(raw)
}

// ParseSeed 解析并校验种子内容。
func ParseSeed(raw []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}

	seed.Container = strings.TrimSpace(seed.Container)
	if seed.Container == "" {
		return Seed{}, errors.New("seed container is required")
	}

	ids := make(map[string]struct{}, len(seed.Entries))
	for i, entry := range seed.Entries {
		entry.ID = strings.TrimSpace(entry.ID)
		entry.Title = strings.TrimSpace(entry.Title)
		entry.ParentID = strings.TrimSpace(entry.ParentID)
		if entry.ID == "" || entry.Title == "" {
			return Seed{}, fmt.Errorf("seed entry %d: id and title are required", i)
		}
		if _, dup := ids[entry.ID]; dup {
			return Seed{}, fmt.Errorf("seed entry %q is duplicated", entry.ID)
		}
		if entry.Type == "" {
			entry.Type = db.MenuKindStatic
		}
		if !db.IsValidMenuKind(entry.Type) {
			return Seed{}, fmt.Errorf("seed entry %q has unknown type %q", entry.ID, entry.Type)
		}
		ids[entry.ID] = struct{}{}
		seed.Entries[i] = entry
	}

	if _, ok := ids[seed.Container]; !ok {
		return Seed{}, fmt.Errorf("seed container %q is not one of the entries", seed.Container)
	}

	for _, entry := range seed.Entries {
		if entry.ParentID == "" {
			continue
		}
		if _, ok := ids[entry.ParentID]; !ok {
			return Seed{}, fmt.Errorf("seed entry %q references unknown parent %q", entry.ID, entry.ParentID)
		}
	}

	// container 必须永远存在，否则无法新建案例。
	protected := make([]string, 0, len(seed.Protected)+1)
	seen := make(map[string]struct{}, len(seed.Protected)+1)
	for _, id := range append(seed.Protected, seed.Container) {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		protected = append(protected, id)
	}
	seed.Protected = protected

	return seed, nil
}

// MenuEntries converts the seed into menu rows ready for db.SeedMenu.
func (s Seed) MenuEntries() []db.MenuEntry {
	entries := make([]db.MenuEntry, 0, len(s.Entries))
	for _, entry := range s.Entries {
		row := db.MenuEntry{
			ID:        entry.ID,
			Title:     entry.Title,
			Kind:      entry.Type,
			SortOrder: entry.SortOrder,
		}
		if entry.ParentID != "" {
			parent := entry.ParentID
			row.ParentID = &parent
		}
		entries = append(entries, row)
	}
	return entries
}
