package batch

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/godruoyi/go-snowflake"
)

// Manifest describes one run.
type Manifest struct {
	RunID   string          `json:"run_id"`
	Input   string          `json:"input"`
	Created string          `json:"created"`
	Jobs    []ManifestEntry `json:"jobs"`
	Errors  []string        `json:"errors,omitempty"`
}

// ManifestEntry represents one job in the output manifest.
type ManifestEntry struct {
	Index   int      `json:"index"`
	Seq     int      `json:"seq"`
	Files   []string `json:"files,omitempty"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
}

// NewManifest builds a manifest with a fresh run id. buildErrs are the
// entities no job could be made for.
func NewManifest(input string, results []Result, buildErrs []error) Manifest {
	m := Manifest{
		RunID:   strconv.FormatUint(snowflake.ID(), 36),
		Input:   input,
		Created: time.Now().UTC().Format(time.RFC3339),
		Jobs:    make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		m.Jobs[i] = ManifestEntry{
			Index:   r.Index,
			Seq:     r.Seq,
			Files:   r.Files,
			Success: r.Success,
			Error:   r.Error,
		}
	}
	for _, err := range buildErrs {
		m.Errors = append(m.Errors, err.Error())
	}
	return m
}

// WriteManifest writes the manifest as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
