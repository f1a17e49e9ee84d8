package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"pyrewrite/internal/diag"
	"pyrewrite/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Invocations       []sarifInvocation      `json:"invocations,omitempty"`
	Results           []sarifResult          `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID     string          `json:"ruleId"`
	RuleIndex  int             `json:"ruleIndex"`
	Level      string          `json:"level"`
	Message    sarifMessage    `json:"message"`
	Locations  []sarifLocation `json:"locations"`
	Fixes      []sarifFix      `json:"fixes,omitempty"`
	Properties map[string]any  `json:"properties,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine,omitempty"`
	StartColumn uint32 `json:"startColumn,omitempty"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

type sarifFix struct {
	Description     sarifMessage          `json:"description"`
	ArtifactChanges []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Replacements     []sarifReplacement    `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion   `json:"deletedRegion"`
	InsertedContent *sarifMessage `json:"insertedContent,omitempty"`
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0).
// Колонки в SARIF считаются с единицы, поэтому offset сдвигается на 1.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	runID := meta.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           meta.ToolName,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
			Rules:          make([]sarifRule, 0),
		}},
		AutomationDetails: sarifAutomationDetails{GUID: runID},
		Results:           make([]sarifResult, 0, bag.Len()),
	}
	if meta.InvocationArgs != nil {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}

	ruleIndex := make(map[diag.Code]int)
	for i := range bag.Items() {
		d := &bag.Items()[i]
		idx, ok := ruleIndex[d.Code]
		if !ok {
			idx = len(run.Tool.Driver.Rules)
			ruleIndex[d.Code] = idx
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
				ID:               d.Code.ID(),
				Name:             d.Code.Title(),
				ShortDescription: sarifMessage{Text: d.Code.Title()},
			})
		}

		line, col := position(fs, d)
		res := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: idx,
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: artifact(fs, d.Primary.File),
				Region:           sarifRegion{StartLine: line, StartColumn: col + 1, ByteOffset: d.Primary.Start, ByteLength: d.Primary.Len()},
			}}},
		}
		if d.Fixed {
			res.Properties = map[string]any{"fixed": true}
		}
		if d.Subject != "" {
			if res.Properties == nil {
				res.Properties = make(map[string]any)
			}
			res.Properties["subject"] = d.Subject
		}
		for _, f := range d.Fixes {
			if f != nil {
				res.Fixes = append(res.Fixes, sarifFixOf(fs, f))
			}
		}
		run.Results = append(run.Results, res)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	}
	return "note"
}

// artifact uses forward slashes as SARIF URIs require.
func artifact(fs *source.FileSet, id source.FileID) sarifArtifactLocation {
	return sarifArtifactLocation{URI: filepath.ToSlash(displayPath(fs, id, PathModeRelative))}
}

func sarifFixOf(fs *source.FileSet, f *diag.Fix) sarifFix {
	byFile := make(map[source.FileID]int)
	out := sarifFix{Description: sarifMessage{Text: f.Title}}
	for _, e := range f.Edits {
		i, ok := byFile[e.Span.File]
		if !ok {
			i = len(out.ArtifactChanges)
			byFile[e.Span.File] = i
			out.ArtifactChanges = append(out.ArtifactChanges, sarifArtifactChange{ArtifactLocation: artifact(fs, e.Span.File)})
		}
		rep := sarifReplacement{DeletedRegion: sarifRegion{ByteOffset: e.Span.Start, ByteLength: e.Span.Len()}}
		if e.NewText != "" {
			rep.InsertedContent = &sarifMessage{Text: e.NewText}
		}
		out.ArtifactChanges[i].Replacements = append(out.ArtifactChanges[i].Replacements, rep)
	}
	return out
}
