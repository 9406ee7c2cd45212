// Package catalog loads family logic tables and their qualification
// questions from YAML files and serves them keyed by family id. The catalog
// is read once at startup and immutable afterwards; the engine works on
// copies, never on the stored tables.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"crossref-service/internal/match/model"
)

// familyFile is the on-disk schema: one family per file, the logic table
// fields plus optional qualification questions.
type familyFile struct {
	FamilyID    string                  `yaml:"familyId"`
	FamilyName  string                  `yaml:"familyName"`
	Category    string                  `yaml:"category"`
	Description string                  `yaml:"description"`
	Rules       []model.MatchingRule    `yaml:"rules"`
	Questions   []model.ContextQuestion `yaml:"questions"`
}

// Catalog is the loaded family set.
type Catalog struct {
	tables   map[string]model.LogicTable
	contexts map[string]model.FamilyContextConfig
	ids      []string // sorted
}

// Load reads every *.yaml / *.yml file in dir, one family per file. Any
// invalid file aborts the load: a half-usable catalog silently skews match
// results, so startup fails loudly instead.
func Load(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}

	c := &Catalog{
		tables:   make(map[string]model.LogicTable),
		contexts: make(map[string]model.FamilyContextConfig),
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if err := c.loadFile(filepath.Join(dir, e.Name())); err != nil {
			return nil, err
		}
	}
	if len(c.tables) == 0 {
		return nil, fmt.Errorf("catalog dir %s holds no family files", dir)
	}
	sort.Strings(c.ids)
	return c, nil
}

func (c *Catalog) loadFile(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read family file: %w", err)
	}
	var f familyFile
	if err := yaml.Unmarshal(payload, &f); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if err := validate(f); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if _, dup := c.tables[f.FamilyID]; dup {
		return fmt.Errorf("%s: duplicate family id %q", filepath.Base(path), f.FamilyID)
	}

	rules := append([]model.MatchingRule(nil), f.Rules...)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].SortOrder < rules[j].SortOrder })

	c.tables[f.FamilyID] = model.LogicTable{
		FamilyID:    f.FamilyID,
		FamilyName:  f.FamilyName,
		Category:    f.Category,
		Description: f.Description,
		Rules:       rules,
	}
	c.contexts[f.FamilyID] = model.FamilyContextConfig{
		FamilyID:  f.FamilyID,
		Questions: f.Questions,
	}
	c.ids = append(c.ids, f.FamilyID)
	return nil
}

func validate(f familyFile) error {
	if f.FamilyID == "" {
		return fmt.Errorf("missing familyId")
	}
	if f.FamilyName == "" {
		return fmt.Errorf("family %q: missing familyName", f.FamilyID)
	}
	if len(f.Rules) == 0 {
		return fmt.Errorf("family %q: no rules", f.FamilyID)
	}

	seenAttr := make(map[string]bool, len(f.Rules))
	for _, r := range f.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("family %q: %w", f.FamilyID, err)
		}
		if seenAttr[r.AttributeID] {
			return fmt.Errorf("family %q: duplicate rule for attribute %q", f.FamilyID, r.AttributeID)
		}
		seenAttr[r.AttributeID] = true
	}

	seenQ := make(map[string]bool, len(f.Questions))
	for _, q := range f.Questions {
		if q.QuestionID == "" {
			return fmt.Errorf("family %q: question without questionId", f.FamilyID)
		}
		if seenQ[q.QuestionID] {
			return fmt.Errorf("family %q: duplicate question %q", f.FamilyID, q.QuestionID)
		}
		seenQ[q.QuestionID] = true
		for _, opt := range q.Options {
			for _, eff := range opt.Effects {
				if eff.AttributeID == "" {
					return fmt.Errorf("family %q: question %q: effect without attributeId", f.FamilyID, q.QuestionID)
				}
				if !eff.Effect.Valid() {
					return fmt.Errorf("family %q: question %q: unknown effect %q", f.FamilyID, q.QuestionID, eff.Effect)
				}
			}
		}
	}
	return nil
}

// Table returns the logic table of a family.
func (c *Catalog) Table(familyID string) (model.LogicTable, bool) {
	t, ok := c.tables[familyID]
	return t, ok
}

// ContextConfig returns the qualification questions of a family. Families
// without questions get an empty config.
func (c *Catalog) ContextConfig(familyID string) model.FamilyContextConfig {
	return c.contexts[familyID]
}

// Families lists catalog summaries sorted by family id.
func (c *Catalog) Families() []model.FamilySummary {
	out := make([]model.FamilySummary, 0, len(c.ids))
	for _, id := range c.ids {
		t := c.tables[id]
		out = append(out, model.FamilySummary{
			FamilyID:      t.FamilyID,
			FamilyName:    t.FamilyName,
			Category:      t.Category,
			Description:   t.Description,
			RuleCount:     len(t.Rules),
			QuestionCount: len(c.contexts[id].Questions),
		})
	}
	return out
}
