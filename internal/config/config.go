package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/protocol-clarity-backend/internal/pkg/logger"
	"github.com/yungbote/protocol-clarity-backend/internal/utils"
)

// Engine holds every tunable of the annotation engine. It is resolved once
// in main and passed by value into engine calls; nothing mutates it after
// load, which is what makes per-chunk processing safe to parallelize.
type Engine struct {
	// MaxTooltips caps how many markup spans a single chunk may receive.
	MaxTooltips int `yaml:"max_tooltips"`
	// TargetGradeLevel is the Flesch-Kincaid grade the corpus should sit at.
	TargetGradeLevel float64 `yaml:"target_grade_level"`

	// Degradation diagnosis thresholds.
	LongTooltipWords    int     `yaml:"long_tooltip_words"`
	ComplexTooltipGrade float64 `yaml:"complex_tooltip_grade"`
	DensityPerSentence  int     `yaml:"density_per_sentence"`

	// Repair policy knobs.
	ShortenCapWords      int     `yaml:"shorten_cap_words"`
	RemoveThresholdGrade float64 `yaml:"remove_threshold_grade"`
	MinRepairImprovement float64 `yaml:"min_repair_improvement"`
	// PreferRevert switches the diagnostician to the revert-to-original
	// policy: discard all injection on any degradation. It cannot make a
	// chunk worse, at the cost of annotation coverage.
	PreferRevert bool `yaml:"prefer_revert"`

	// CategoryWeights feed the injection priority score. Categories not
	// listed fall back to DefaultCategoryWeight.
	CategoryWeights       map[string]float64 `yaml:"category_weights"`
	DefaultCategoryWeight float64            `yaml:"default_category_weight"`
}

func DefaultEngine() Engine {
	return Engine{
		MaxTooltips:          5,
		TargetGradeLevel:     8.0,
		LongTooltipWords:     15,
		ComplexTooltipGrade:  8.0,
		DensityPerSentence:   3,
		ShortenCapWords:      12,
		RemoveThresholdGrade: 8.0,
		MinRepairImprovement: 0.1,
		CategoryWeights: map[string]float64{
			"neuroscience": 100,
		},
		DefaultCategoryWeight: 50,
	}
}

// LoadEngine resolves the engine config: defaults, then the YAML file at
// ENGINE_CONFIG_PATH (if set), then individual env overrides.
func LoadEngine(log *logger.Logger) (Engine, error) {
	cfg := DefaultEngine()

	if path := utils.GetEnv("ENGINE_CONFIG_PATH", "", log); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read engine config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse engine config %s: %w", path, err)
		}
	}

	cfg.MaxTooltips = utils.GetEnvAsInt("MAX_TOOLTIPS", cfg.MaxTooltips, log)
	cfg.TargetGradeLevel = utils.GetEnvAsFloat("TARGET_GRADE_LEVEL", cfg.TargetGradeLevel, log)
	cfg.PreferRevert = utils.GetEnvAsBool("PREFER_REVERT", cfg.PreferRevert, log)

	return cfg.normalized(), nil
}

func (c Engine) normalized() Engine {
	if c.MaxTooltips < 0 {
		c.MaxTooltips = 0
	}
	if c.LongTooltipWords <= 0 {
		c.LongTooltipWords = 15
	}
	if c.DensityPerSentence <= 0 {
		c.DensityPerSentence = 3
	}
	if c.ShortenCapWords <= 0 {
		c.ShortenCapWords = 12
	}
	if c.DefaultCategoryWeight == 0 {
		c.DefaultCategoryWeight = 50
	}
	if c.CategoryWeights == nil {
		c.CategoryWeights = map[string]float64{}
	}
	return c
}

// CategoryWeight returns the injection weight for a glossary category.
func (c Engine) CategoryWeight(category string) float64 {
	if w, ok := c.CategoryWeights[category]; ok {
		return w
	}
	return c.DefaultCategoryWeight
}
