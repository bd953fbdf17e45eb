// Package manifest records what went into a toolflow run and what came out of it.
package manifest

import (
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-git/v5"
	"gopkg.in/yaml.v2"

	"github.com/daedaleanai/fpgaflow/log"
	"github.com/daedaleanai/fpgaflow/util"
)

// RecordExt is appended to the board name to name the record of a run.
const RecordExt = ".build.yaml"

// Provenance identifies the state of the repository a build was started from.
type Provenance struct {
	Revision string `yaml:"revision,omitempty"`
	Dirty    bool   `yaml:"dirty,omitempty"`
}

// Record describes a single toolflow run.
type Record struct {
	ToolVersion string            `yaml:"tool_version"`
	Board       string            `yaml:"board"`
	Part        string            `yaml:"part"`
	Design      string            `yaml:"design"`
	Dialect     string            `yaml:"dialect"`
	Sources     []string          `yaml:"sources"`
	Constraints string            `yaml:"constraints"`
	Script      string            `yaml:"script"`
	Log         string            `yaml:"log"`
	Provenance  Provenance        `yaml:"provenance,omitempty"`
	Started     time.Time         `yaml:"started"`
	Finished    time.Time         `yaml:"finished"`
	ExitCode    int               `yaml:"exit_code"`
	TimedOut    bool              `yaml:"timed_out,omitempty"`
	Status      string            `yaml:"status"`
	Utilization map[string]string `yaml:"utilization,omitempty"`
}

// CellDiff is the change of a single cell count between two records.
type CellDiff struct {
	Cell     string
	Old, New string
}

func (d CellDiff) String() string {
	switch {
	case d.Old == "":
		return fmt.Sprintf("+ %s: %s", d.Cell, d.New)
	case d.New == "":
		return fmt.Sprintf("- %s: %s", d.Cell, d.Old)
	}
	return fmt.Sprintf("~ %s: %s -> %s", d.Cell, d.Old, d.New)
}

// DiffResult compares two records of the same design.
type DiffResult struct {
	Differ      bool
	ToolVersion string
	Part        string
	Cells       []CellDiff
}

// GitProvenance reports the HEAD commit of the repository containing `dir`.
// Outside a repository it returns an empty Provenance.
func GitProvenance(dir string) Provenance {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		log.Debug("No git repository found for '%s': %s.\n", dir, err)
		return Provenance{}
	}

	head, err := repo.Head()
	if err != nil {
		log.Debug("Failed to get repo HEAD: %s.\n", err)
		return Provenance{}
	}
	result := Provenance{Revision: head.Hash().String()}

	worktree, err := repo.Worktree()
	if err != nil {
		log.Debug("Failed to get repo worktree: %s.\n", err)
		return result
	}
	status, err := worktree.Status()
	if err != nil {
		log.Debug("Failed to get repo status: %s.\n", err)
		return result
	}
	result.Dirty = !status.IsClean()
	return result
}

// Write stores the record as YAML, replacing any previous record.
func (r Record) Write(file string) error {
	data, err := yaml.Marshal(&r)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(file, data)
}

// Read loads a record written by Write.
func Read(file string) (Record, error) {
	var record Record
	data, err := os.ReadFile(file)
	if err != nil {
		return record, err
	}
	if err := yaml.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("%s: %w", file, err)
	}
	if _, err := util.ParseVersion(record.ToolVersion); err != nil {
		return record, fmt.Errorf("%s: %w", file, err)
	}
	return record, nil
}

// Diff compares the utilization of two records. Cells are reported in name order.
func Diff(newRecord, oldRecord Record) DiffResult {
	result := DiffResult{}

	if newRecord.ToolVersion != oldRecord.ToolVersion {
		result.Differ = true
		result.ToolVersion = fmt.Sprintf("tool version changed from %s to %s", oldRecord.ToolVersion, newRecord.ToolVersion)
	}
	if newRecord.Part != oldRecord.Part {
		result.Differ = true
		result.Part = fmt.Sprintf("part changed from %s to %s", oldRecord.Part, newRecord.Part)
	}

	cells := map[string]bool{}
	for cell := range newRecord.Utilization {
		cells[cell] = true
	}
	for cell := range oldRecord.Utilization {
		cells[cell] = true
	}

	for _, cell := range util.OrderedKeys(cells) {
		newCount := newRecord.Utilization[cell]
		oldCount := oldRecord.Utilization[cell]
		if newCount != oldCount {
			result.Differ = true
			result.Cells = append(result.Cells, CellDiff{Cell: cell, Old: oldCount, New: newCount})
		}
	}
	return result
}
