// Package catalog loads nested trivia game definitions from YAML files.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ayoola66/excellence-games/internal/game/trivia"
)

// yamlGameFile is the top-level YAML structure for game files.
type yamlGameFile struct {
	Game yamlGame `yaml:"game"`
}

// yamlGame is the YAML representation of a game.
type yamlGame struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Kind        string         `yaml:"kind"`
	Tier        string         `yaml:"tier"`
	Categories  []yamlCategory `yaml:"categories"`
}

// yamlCategory is the YAML representation of a category.
type yamlCategory struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Slot        int            `yaml:"slot"`
	Questions   []yamlQuestion `yaml:"questions"`
}

// yamlQuestion is the YAML representation of a question.
type yamlQuestion struct {
	ID          string            `yaml:"id"`
	Prompt      string            `yaml:"prompt"`
	Options     map[string]string `yaml:"options"`
	Correct     string            `yaml:"correct"`
	Explanation string            `yaml:"explanation"`
}

// LoadGameFromFile reads and validates a single game YAML file.
//
// Precondition: path must point to a valid YAML game file.
// Postcondition: Returns a validated Game or a non-nil error.
func LoadGameFromFile(path string) (*trivia.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading game file %s: %w", path, err)
	}
	g, err := LoadGameFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing game file %s: %w", path, err)
	}
	return g, nil
}

// LoadGameFromBytes parses and validates a game from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the game schema.
// Postcondition: Returns a validated Game or a non-nil error.
func LoadGameFromBytes(data []byte) (*trivia.Game, error) {
	var file yamlGameFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshalling game: %w", err)
	}

	g := &trivia.Game{
		ID:          file.Game.ID,
		Name:        file.Game.Name,
		Description: file.Game.Description,
		Kind:        file.Game.Kind,
		Tier:        trivia.Tier(file.Game.Tier),
	}
	for _, yc := range file.Game.Categories {
		cat := trivia.Category{
			ID:          yc.ID,
			Name:        yc.Name,
			Description: yc.Description,
			Slot:        yc.Slot,
		}
		for _, yq := range yc.Questions {
			q := trivia.Question{
				ID:          yq.ID,
				Prompt:      yq.Prompt,
				Options:     make(map[trivia.OptionKey]string, len(yq.Options)),
				CorrectKey:  trivia.OptionKey(yq.Correct),
				Explanation: yq.Explanation,
			}
			for key, text := range yq.Options {
				q.Options[trivia.OptionKey(key)] = text
			}
			cat.Questions = append(cat.Questions, q)
		}
		g.Categories = append(g.Categories, cat)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("validating game %q: %w", g.ID, err)
	}
	return g, nil
}

// LoadGamesFromDir loads every .yaml/.yml game file in dir (non-recursive).
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all validated games, or an error naming the first
// file that failed. Duplicate game IDs across files are rejected.
func LoadGamesFromDir(dir string) ([]*trivia.Game, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading game directory %s: %w", dir, err)
	}

	var games []*trivia.Game
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		path := filepath.Join(dir, name)
		g, err := LoadGameFromFile(path)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[g.ID]; dup {
			return nil, fmt.Errorf("game id %q defined in both %s and %s", g.ID, prev, name)
		}
		seen[g.ID] = name
		games = append(games, g)
	}
	return games, nil
}
