package neat

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
)

// SaveCheckpoint saves the current state of the Population to a file.
// Uses gzip compression for smaller file size.
func (p *Population) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	if err := gob.NewEncoder(gzWriter).Encode(p.Record()); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode population data: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint file '%s': %w", filePath, err)
	}

	p.logger.Info("checkpoint saved", "path", filePath, "generation", p.Generation)
	return nil
}

// LoadCheckpoint loads a Population state from a checkpoint file.
// config supplies the algorithm options; see FromRecord.
func LoadCheckpoint(checkpointPath string, config *Config, opts ...Option) (*Population, error) {
	file, err := os.Open(checkpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", checkpointPath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	var rec PopulationRecord
	if err := gob.NewDecoder(gzReader).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode population data from checkpoint: %w", err)
	}

	p, err := FromRecord(config, rec, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to restore checkpoint '%s': %w", checkpointPath, err)
	}
	p.logger.Info("checkpoint loaded", "path", checkpointPath, "generation", p.Generation)
	return p, nil
}
