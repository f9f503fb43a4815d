package neat

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/Up-North-Coding/NEAT/neat/nn"
)

// Config stores the configuration parameters for the NEAT algorithm.
type Config struct {
	Neat         NeatConfig         `ini:"NEAT" yaml:"neat"`
	Genome       GenomeConfig       `ini:"Genome" yaml:"genome"`
	Species      SpeciesConfig      `ini:"Species" yaml:"species"`
	Reproduction ReproductionConfig `ini:"Reproduction" yaml:"reproduction"`

	// Innovation is the shared source of innovation numbers. A population
	// creates one when it is nil.
	Innovation *Innovation `ini:"-" yaml:"-"`

	rng *rand.Rand
}

// NeatConfig holds parameters specific to the NEAT algorithm itself.
type NeatConfig struct {
	PopulationSize    int     `ini:"population_size" yaml:"population_size"`
	FitnessThreshold  float64 `ini:"fitness_threshold" yaml:"fitness_threshold"`
	ResetOnExtinction bool    `ini:"reset_on_extinction" yaml:"reset_on_extinction"`
	Workers           int     `ini:"workers" yaml:"workers"` // Concurrent fitness evaluations
	Seed              int64   `ini:"seed" yaml:"seed"`       // 0 seeds from the clock
}

// GenomeConfig holds parameters specific to the structure and mutation of genomes.
type GenomeConfig struct {
	MutationPower           float64 `ini:"mutation_power" yaml:"mutation_power"`
	GenomeWeightPerturbated float64 `ini:"genome_weight_perturbated" yaml:"genome_weight_perturbated"`
	AddConnectionTries      int     `ini:"add_connection_tries" yaml:"add_connection_tries"`
	FeedForwardOnly         bool    `ini:"feed_forward_only" yaml:"feed_forward_only"`
	Activation              string  `ini:"activation" yaml:"activation"`

	ExcessCoefficient           float64 `ini:"excess_coefficient" yaml:"excess_coefficient"`
	DisjointCoefficient         float64 `ini:"disjoint_coefficient" yaml:"disjoint_coefficient"`
	WeightDifferenceCoefficient float64 `ini:"weight_difference_coefficient" yaml:"weight_difference_coefficient"`

	MutateAddNodeProbability           float64 `ini:"mutate_add_node_probability" yaml:"mutate_add_node_probability"`
	MutateAddConnectionProbability     float64 `ini:"mutate_add_connection_probability" yaml:"mutate_add_connection_probability"`
	MutateConnectionWeightsProbability float64 `ini:"mutate_connection_weights_probability" yaml:"mutate_connection_weights_probability"`
	MutateToggleEnableProbability      float64 `ini:"mutate_toggle_enable_probability" yaml:"mutate_toggle_enable_probability"`
	ReEnableGeneProbability            float64 `ini:"re_enable_gene_probability" yaml:"re_enable_gene_probability"`
}

// SpeciesConfig holds parameters related to speciation and stagnation.
type SpeciesConfig struct {
	CompatibilityThreshold       float64 `ini:"compatibility_threshold" yaml:"compatibility_threshold"`
	AdjustCompatibilityThreshold bool    `ini:"adjust_compatibility_threshold" yaml:"adjust_compatibility_threshold"`
	CompatibilityModifierTarget  int     `ini:"compatibility_modifier_target" yaml:"compatibility_modifier_target"`
	CompatibilityModifier        float64 `ini:"compatibility_modifier" yaml:"compatibility_modifier"`
	SurvivalThreshold            float64 `ini:"survival_threshold" yaml:"survival_threshold"`
	DropoffAge                   int     `ini:"dropoff_age" yaml:"dropoff_age"`
	AgeSignificance              float64 `ini:"age_significance" yaml:"age_significance"`
}

// ReproductionConfig holds parameters related to reproduction.
type ReproductionConfig struct {
	MutateOnlyProbability float64 `ini:"mutate_only_probability" yaml:"mutate_only_probability"`
	InterspeciesMateRate  float64 `ini:"interspecies_mate_rate" yaml:"interspecies_mate_rate"`
}

// DefaultConfig returns a configuration with every option set to its default.
func DefaultConfig() *Config {
	return &Config{
		Neat: NeatConfig{
			PopulationSize:    150,
			FitnessThreshold:  15.9,
			ResetOnExtinction: true,
			Workers:           1,
		},
		Genome: GenomeConfig{
			MutationPower:                      2.5,
			GenomeWeightPerturbated:            0.9,
			AddConnectionTries:                 20,
			Activation:                         "sigmoid",
			ExcessCoefficient:                  1.0,
			DisjointCoefficient:                1.0,
			WeightDifferenceCoefficient:        0.4,
			MutateAddNodeProbability:           0.03,
			MutateAddConnectionProbability:     0.05,
			MutateConnectionWeightsProbability: 0.8,
			MutateToggleEnableProbability:      0.01,
			ReEnableGeneProbability:            0.05,
		},
		Species: SpeciesConfig{
			CompatibilityThreshold:       3.0,
			AdjustCompatibilityThreshold: true,
			CompatibilityModifierTarget:  10,
			CompatibilityModifier:        0.3,
			SurvivalThreshold:            0.2,
			DropoffAge:                   15,
			AgeSignificance:              1.0,
		},
		Reproduction: ReproductionConfig{
			MutateOnlyProbability: 0.25,
			InterspeciesMateRate:  0.001,
		},
	}
}

// LoadConfig loads configuration parameters from an INI or YAML file.
// Options missing from the file keep their default value.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", filePath, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
		}
	default:
		file, err := ini.LoadSources(ini.LoadOptions{
			IgnoreInlineComment:         true,
			UnescapeValueCommentSymbols: true,
		}, filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
		}
		sections := []struct {
			name   string
			target any
		}{
			{"NEAT", &config.Neat},
			{"Genome", &config.Genome},
			{"Species", &config.Species},
			{"Reproduction", &config.Reproduction},
		}
		for _, s := range sections {
			if err := file.Section(s.name).MapTo(s.target); err != nil {
				return nil, fmt.Errorf("failed to map [%s] section: %w", s.name, err)
			}
		}
		config.Genome.Activation = strings.TrimSpace(config.Genome.Activation)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks every option for a usable value.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	probabilities := map[string]float64{
		"genome_weight_perturbated":             c.Genome.GenomeWeightPerturbated,
		"mutate_add_node_probability":           c.Genome.MutateAddNodeProbability,
		"mutate_add_connection_probability":     c.Genome.MutateAddConnectionProbability,
		"mutate_connection_weights_probability": c.Genome.MutateConnectionWeightsProbability,
		"mutate_toggle_enable_probability":      c.Genome.MutateToggleEnableProbability,
		"re_enable_gene_probability":            c.Genome.ReEnableGeneProbability,
		"survival_threshold":                    c.Species.SurvivalThreshold,
		"mutate_only_probability":               c.Reproduction.MutateOnlyProbability,
		"interspecies_mate_rate":                c.Reproduction.InterspeciesMateRate,
	}
	for name, p := range probabilities {
		if p < 0 || p > 1 {
			return invalid("%s must be between 0 and 1, got %v", name, p)
		}
	}

	switch {
	case c.Neat.PopulationSize <= 0:
		return invalid("population_size must be positive")
	case c.Neat.Workers < 0:
		return invalid("workers cannot be negative")
	case c.Genome.MutationPower < 0:
		return invalid("mutation_power cannot be negative")
	case c.Genome.AddConnectionTries < 0:
		return invalid("add_connection_tries cannot be negative")
	case c.Genome.ExcessCoefficient < 0, c.Genome.DisjointCoefficient < 0, c.Genome.WeightDifferenceCoefficient < 0:
		return invalid("compatibility coefficients cannot be negative")
	case c.Species.CompatibilityThreshold < 0:
		return invalid("compatibility_threshold cannot be negative")
	case c.Species.CompatibilityModifier < 0:
		return invalid("compatibility_modifier cannot be negative")
	case c.Species.DropoffAge <= 0:
		return invalid("dropoff_age must be positive")
	case c.Species.AgeSignificance < 0:
		return invalid("age_significance cannot be negative")
	}
	if c.Genome.Activation != "" {
		if _, err := nn.GetActivation(c.Genome.Activation); err != nil {
			return invalid("%v", err)
		}
	}
	return nil
}

// Copy returns an independent copy sharing the innovation source.
// The copy draws from its own random generator.
func (c *Config) Copy() *Config {
	cp := *c
	cp.rng = nil
	return &cp
}

// random returns the generator every stochastic operator draws from,
// seeding it on first use.
func (c *Config) random() *rand.Rand {
	if c.rng == nil {
		seed := c.Neat.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		c.rng = rand.New(rand.NewSource(seed))
	}
	return c.rng
}

// nextInnovation consumes the next innovation number, creating the shared
// counter on first use.
func (c *Config) nextInnovation() int64 {
	if c.Innovation == nil {
		c.Innovation = NewInnovation(0)
	}
	return c.Innovation.Next()
}

func (c *Config) activation() nn.ActivationFunc {
	fn, err := nn.GetActivation(c.Genome.Activation)
	if err != nil {
		return nn.Sigmoid
	}
	return fn
}
