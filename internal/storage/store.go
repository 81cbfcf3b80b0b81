// Package storage persists finished runs under a base directory, one
// subdirectory per run holding metadata.json and diagnostics.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/sdmsim/internal/config"
	"github.com/san-kum/sdmsim/internal/metrics"
	"github.com/san-kum/sdmsim/internal/sim"
)

const (
	metadataFile    = "metadata.json"
	diagnosticsFile = "diagnostics.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         uint64             `json:"seed"`
	Ticks        uint64             `json:"ticks"`
	Steps        int                `json:"steps"`
	Observations int                `json:"observations"`
	Nulls        int                `json:"nulls"`
	Metrics      map[string]float64 `json:"metrics"`
	Config       *config.Config     `json:"config"`
}

// Save writes result under a new run ID and returns the ID.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", cfg.Name, uuid.NewString())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Name:         cfg.Name,
		Timestamp:    time.Now(),
		Seed:         cfg.Seed,
		Ticks:        result.Ticks,
		Steps:        result.Steps,
		Observations: result.Observations,
		Nulls:        result.Nulls,
		Metrics:      result.Metrics,
		Config:       cfg,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, diagnosticsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteDiagnostics(csvFile, result.Diagnostics); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns the metadata of every stored run, oldest first. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadDiagnostics(runID string) ([]metrics.Diagnostics, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, diagnosticsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.Diagnostics{}, nil
	}

	diags := make([]metrics.Diagnostics, 0, len(records)-1)
	for i, rec := range records[1:] {
		d, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", diagnosticsFile, i+2, err)
		}
		diags = append(diags, d)
	}
	return diags, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
