package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/codepath-backend/internal/domain"
	"github.com/yungbote/codepath-backend/internal/platform/envutil"
)

// PointsTable maps question difficulty to the points a correct answer earns.
type PointsTable struct {
	Easy   int `yaml:"easy"`
	Medium int `yaml:"medium"`
	Hard   int `yaml:"hard"`
}

func DefaultPointsTable() PointsTable {
	return PointsTable{Easy: 10, Medium: 20, Hard: 30}
}

type scoringFile struct {
	DifficultyPoints struct {
		Easy   *int `yaml:"easy"`
		Medium *int `yaml:"medium"`
		Hard   *int `yaml:"hard"`
	} `yaml:"difficulty_points"`
}

// LoadPointsTable starts from the defaults, overlays the YAML file at path
// (when non-empty) and then POINTS_EASY / POINTS_MEDIUM / POINTS_HARD.
func LoadPointsTable(path string) (PointsTable, error) {
	table := DefaultPointsTable()
	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return PointsTable{}, fmt.Errorf("read scoring config: %w", err)
		}
		var f scoringFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return PointsTable{}, fmt.Errorf("parse scoring config %s: %w", path, err)
		}
		if v := f.DifficultyPoints.Easy; v != nil {
			table.Easy = *v
		}
		if v := f.DifficultyPoints.Medium; v != nil {
			table.Medium = *v
		}
		if v := f.DifficultyPoints.Hard; v != nil {
			table.Hard = *v
		}
	}
	table.Easy = envutil.Int("POINTS_EASY", table.Easy)
	table.Medium = envutil.Int("POINTS_MEDIUM", table.Medium)
	table.Hard = envutil.Int("POINTS_HARD", table.Hard)
	if err := table.Validate(); err != nil {
		return PointsTable{}, err
	}
	return table, nil
}

func (t PointsTable) Validate() error {
	if t.Easy <= 0 || t.Medium <= 0 || t.Hard <= 0 {
		return fmt.Errorf("scoring: difficulty points must be > 0 (easy=%d medium=%d hard=%d)", t.Easy, t.Medium, t.Hard)
	}
	return nil
}

// PointsFor returns the points a correct answer to q earns. A positive
// point_value on the question wins over the difficulty table.
func (t PointsTable) PointsFor(q *types.QuizQuestion) (int, bool) {
	if q == nil {
		return 0, false
	}
	if q.PointValue != nil && *q.PointValue > 0 {
		return *q.PointValue, true
	}
	switch q.Difficulty {
	case types.DifficultyEasy:
		return t.Easy, true
	case types.DifficultyMedium:
		return t.Medium, true
	case types.DifficultyHard:
		return t.Hard, true
	}
	return 0, false
}
