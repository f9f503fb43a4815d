package neat

import (
	"fmt"
	"log/slog"
)

// ConnectionRecord is a connection gene with its endpoints referenced by node id.
type ConnectionRecord struct {
	Innovation int64   `json:"innovation" yaml:"innovation"`
	From       string  `json:"from" yaml:"from"`
	To         string  `json:"to" yaml:"to"`
	Weight     float64 `json:"weight" yaml:"weight"`
	Enabled    bool    `json:"enabled" yaml:"enabled"`
}

// GenomeRecord is a pointer-free form of a genome, suitable for encoding.
type GenomeRecord struct {
	ID          string             `json:"id" yaml:"id"`
	Nodes       []NodeSpec         `json:"nodes" yaml:"nodes"`
	Connections []ConnectionRecord `json:"connections" yaml:"connections"`
}

// Record returns the genome as a record, nodes in insertion order and
// connections by innovation.
func (g *Genome) Record() GenomeRecord {
	rec := GenomeRecord{ID: g.ID}
	for _, n := range g.Nodes() {
		rec.Nodes = append(rec.Nodes, NodeSpec{ID: n.ID, Type: n.Type})
	}
	for _, c := range g.Connections() {
		rec.Connections = append(rec.Connections, ConnectionRecord{
			Innovation: c.Innovation,
			From:       c.From.ID,
			To:         c.To.ID,
			Weight:     c.Weight,
			Enabled:    c.Enabled,
		})
	}
	return rec
}

// GenomeFromRecord rebuilds a genome, keeping the recorded innovation numbers.
func GenomeFromRecord(rec GenomeRecord) (*Genome, error) {
	g := NewGenome(rec.ID)
	for _, n := range rec.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: genome %s has a node without id", ErrInvalidNode, rec.ID)
		}
		if _, dup := g.nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: %s in genome %s", ErrDuplicateNode, n.ID, rec.ID)
		}
		g.AddNode(NewNodeGene(n.ID, n.Type))
	}
	for _, c := range rec.Connections {
		from, okFrom := g.nodes[c.From]
		to, okTo := g.nodes[c.To]
		if !okFrom || !okTo {
			return nil, fmt.Errorf("%w: connection %s -> %s in genome %s", ErrUnknownNode, c.From, c.To, rec.ID)
		}
		if _, dup := g.connections[c.Innovation]; dup {
			return nil, fmt.Errorf("duplicate innovation %d in genome %s", c.Innovation, rec.ID)
		}
		g.connections[c.Innovation] = &ConnectionGene{
			From:       from,
			To:         to,
			Weight:     c.Weight,
			Enabled:    c.Enabled,
			Innovation: c.Innovation,
		}
	}
	return g, nil
}

// OrganismRecord is an organism with its species referenced by id.
type OrganismRecord struct {
	Genome          GenomeRecord `json:"genome" yaml:"genome"`
	Fitness         float64      `json:"fitness" yaml:"fitness"`
	OriginalFitness float64      `json:"original_fitness" yaml:"original_fitness"`
	Generation      int          `json:"generation" yaml:"generation"`
	Species         int          `json:"species" yaml:"species"`
}

// SpeciesRecord holds the bookkeeping of a species. Members are listed in
// PopulationRecord.Organisms.
type SpeciesRecord struct {
	ID                   int           `json:"id" yaml:"id"`
	Age                  int           `json:"age" yaml:"age"`
	AgeOfLastImprovement int           `json:"age_of_last_improvement" yaml:"age_of_last_improvement"`
	MaxFitness           float64       `json:"max_fitness" yaml:"max_fitness"`
	AverageFitness       float64       `json:"average_fitness" yaml:"average_fitness"`
	Specimen             *GenomeRecord `json:"specimen,omitempty" yaml:"specimen,omitempty"`
}

// PopulationRecord is everything needed to resume a population.
type PopulationRecord struct {
	Generation             int              `json:"generation" yaml:"generation"`
	Size                   int              `json:"size" yaml:"size"`
	NextInnovation         int64            `json:"next_innovation" yaml:"next_innovation"`
	NextSpeciesID          int              `json:"next_species_id" yaml:"next_species_id"`
	CompatibilityThreshold float64          `json:"compatibility_threshold" yaml:"compatibility_threshold"`
	Seed                   Topology         `json:"seed" yaml:"seed"`
	Species                []SpeciesRecord  `json:"species" yaml:"species"`
	Organisms              []OrganismRecord `json:"organisms" yaml:"organisms"`
}

// Record captures the population state.
func (p *Population) Record() PopulationRecord {
	rec := PopulationRecord{
		Generation:             p.Generation,
		Size:                   p.Size,
		NextInnovation:         p.Config.Innovation.Peek(),
		NextSpeciesID:          p.nextSpeciesID,
		CompatibilityThreshold: p.Config.Species.CompatibilityThreshold,
		Seed:                   p.seed,
	}
	for _, s := range p.Species {
		sr := SpeciesRecord{
			ID:                   s.ID,
			Age:                  s.Age,
			AgeOfLastImprovement: s.AgeOfLastImprovement,
			MaxFitness:           s.MaxFitness,
			AverageFitness:       s.AverageFitness,
		}
		if s.specimen != nil {
			specimen := s.specimen.Genome.Record()
			sr.Specimen = &specimen
		}
		rec.Species = append(rec.Species, sr)
	}
	for _, o := range p.Organisms {
		or := OrganismRecord{
			Genome:          o.Genome.Record(),
			Fitness:         o.Fitness,
			OriginalFitness: o.OriginalFitness,
			Generation:      o.Generation,
		}
		if o.Species != nil {
			or.Species = o.Species.ID
		}
		rec.Organisms = append(rec.Organisms, or)
	}
	return rec
}

// FromRecord restores a population captured by Record. Options from config
// apply, except the population size, innovation counter and compatibility
// threshold, which come from the record.
func FromRecord(config *Config, rec PopulationRecord, opts ...Option) (*Population, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	cfg := config.Copy()
	cfg.Innovation = NewInnovation(rec.NextInnovation)
	cfg.Species.CompatibilityThreshold = rec.CompatibilityThreshold

	p := &Population{
		Size:          rec.Size,
		Config:        cfg,
		Generation:    rec.Generation,
		seed:          rec.Seed,
		nextSpeciesID: rec.NextSpeciesID,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}

	byID := make(map[int]*Species, len(rec.Species))
	specimens := make(map[int]*Organism, len(rec.Species))
	for _, sr := range rec.Species {
		s := &Species{
			ID:                   sr.ID,
			Age:                  sr.Age,
			AgeOfLastImprovement: sr.AgeOfLastImprovement,
			MaxFitness:           sr.MaxFitness,
			AverageFitness:       sr.AverageFitness,
		}
		if sr.Specimen != nil {
			g, err := GenomeFromRecord(*sr.Specimen)
			if err != nil {
				return nil, fmt.Errorf("specimen of species %d: %w", sr.ID, err)
			}
			specimens[sr.ID] = NewOrganism(g, 0, 0)
		}
		byID[s.ID] = s
		p.Species = append(p.Species, s)
	}

	for _, or := range rec.Organisms {
		g, err := GenomeFromRecord(or.Genome)
		if err != nil {
			return nil, err
		}
		o := NewOrganism(g, or.Fitness, or.Generation)
		o.OriginalFitness = or.OriginalFitness
		s, ok := byID[or.Species]
		if !ok {
			return nil, fmt.Errorf("organism %s belongs to unknown species %d", g.ID, or.Species)
		}
		s.AddOrganism(o)
		p.Organisms = append(p.Organisms, o)
	}
	for id, specimen := range specimens {
		byID[id].specimen = specimen
	}
	return p, nil
}
