package scorers

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Tables holds the curated lookup data the scorers share: skill synonym
// groups and sector proximity pairs. Read-only after load.
type Tables struct {
	canon      map[string]string
	sectorProx map[string]float64
}

// tablesFile is the YAML shape of config/synonyms.yaml.
type tablesFile struct {
	Skills  [][]string `yaml:"skills"`
	Sectors []struct {
		Pair      []string `yaml:"pair"`
		Proximity float64  `yaml:"proximity"`
	} `yaml:"sectors"`
}

// LoadTables reads synonym and proximity tables from a YAML file.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonym table %s: %w", path, err)
	}
	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse synonym table: %w", err)
	}
	t, err := buildTables(f)
	if err != nil {
		return nil, err
	}
	log.Info().Int("skill_groups", len(f.Skills)).Int("sector_pairs", len(f.Sectors)).Msg("scorer tables loaded")
	return t, nil
}

// DefaultTables returns the built-in tables used when no file is configured.
func DefaultTables() *Tables {
	t, err := buildTables(defaultTablesConfig)
	if err != nil {
		// The built-in config is validated by tests; this is unreachable
		// short of a bad code change.
		panic(err)
	}
	return t
}

func buildTables(f tablesFile) (*Tables, error) {
	t := &Tables{
		canon:      make(map[string]string),
		sectorProx: make(map[string]float64),
	}
	for _, group := range f.Skills {
		if len(group) < 2 {
			return nil, fmt.Errorf("synonym group %v needs at least two entries", group)
		}
		rep := NormalizeToken(group[0])
		for _, tok := range group {
			t.canon[NormalizeToken(tok)] = rep
		}
	}
	for _, s := range f.Sectors {
		if len(s.Pair) != 2 {
			return nil, fmt.Errorf("sector proximity entry %v needs exactly two sectors", s.Pair)
		}
		if s.Proximity < 0 || s.Proximity > 1 {
			return nil, fmt.Errorf("sector proximity for %v is %.2f, outside [0,1]", s.Pair, s.Proximity)
		}
		t.sectorProx[proxKey(s.Pair[0], s.Pair[1])] = s.Proximity
	}
	return t, nil
}

// NormalizeToken lowercases and trims a skill or sector token.
func NormalizeToken(tok string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(tok))), " ")
}

// Canonical maps a skill token to its synonym-group representative. Tokens
// without a group map to themselves.
func (t *Tables) Canonical(tok string) string {
	n := NormalizeToken(tok)
	if rep, ok := t.canon[n]; ok {
		return rep
	}
	return n
}

// SectorProximity returns the curated closeness of two sectors in [0,1].
// Unrelated sectors return 0; identical sectors return 1.
func (t *Tables) SectorProximity(a, b string) float64 {
	na, nb := NormalizeToken(a), NormalizeToken(b)
	if na == nb {
		return 1.0
	}
	return t.sectorProx[proxKey(na, nb)]
}

func proxKey(a, b string) string {
	na, nb := NormalizeToken(a), NormalizeToken(b)
	pair := []string{na, nb}
	sort.Strings(pair)
	return pair[0] + "|" + pair[1]
}

// defaultTablesConfig mirrors config/synonyms.yaml.
var defaultTablesConfig = tablesFile{
	Skills: [][]string{
		{"go", "golang"},
		{"javascript", "js", "ecmascript"},
		{"typescript", "ts"},
		{"python", "py"},
		{"kubernetes", "k8s"},
		{"postgresql", "postgres", "pgsql"},
		{"amazon web services", "aws"},
		{"google cloud", "gcp", "google cloud platform"},
		{"machine learning", "ml"},
		{"comptabilite", "accounting", "compta"},
		{"gestion de paie", "payroll"},
		{"controle de gestion", "management control"},
		{"business development", "biz dev", "commercial"},
		{"gestion de projet", "project management"},
	},
	Sectors: []struct {
		Pair      []string `yaml:"pair"`
		Proximity float64  `yaml:"proximity"`
	}{
		{Pair: []string{"fintech", "banking"}, Proximity: 0.8},
		{Pair: []string{"fintech", "insurance"}, Proximity: 0.6},
		{Pair: []string{"banking", "insurance"}, Proximity: 0.7},
		{Pair: []string{"e-commerce", "retail"}, Proximity: 0.8},
		{Pair: []string{"software", "fintech"}, Proximity: 0.6},
		{Pair: []string{"software", "e-commerce"}, Proximity: 0.6},
		{Pair: []string{"consulting", "audit"}, Proximity: 0.7},
		{Pair: []string{"audit", "accounting"}, Proximity: 0.8},
		{Pair: []string{"logistics", "retail"}, Proximity: 0.5},
		{Pair: []string{"healthcare", "pharma"}, Proximity: 0.7},
	},
}
