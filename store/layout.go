package store

import (
	"fmt"
	"path/filepath"

	"github.com/katalvlaran/mpcbench/core"
)

// ArtifactsDir is the artifact root relative to Layout.Dir.
const ArtifactsDir = "artifacts"

// artifactNames maps each source to its file name inside an instance's
// artifact directory.
var artifactNames = map[core.Source]string{
	core.SourceCalendar: "calendar.json",
	core.SourcePolicy:   "policy.json",
	core.SourceThread:   "threads.json",
	core.SourceMail:     "mail.json",
	core.SourceDocument: "documents.json",
	core.SourceRooms:    "rooms.json",
}

// Layout names the files of one run.
type Layout struct {
	Dir    string
	Level  core.Level
	Suffix string
}

func (l Layout) name(prefix, ext string) string {
	return filepath.Join(l.Dir, fmt.Sprintf("%s_%s_%s%s", prefix, l.Level, l.Suffix, ext))
}

// WorldPath returns world_level{L}_{suffix}.json.
func (l Layout) WorldPath() string { return l.name("world", ".json") }

// InstancesPath returns instances_level{L}_{suffix}.jsonl.
func (l Layout) InstancesPath() string { return l.name("instances", ".jsonl") }

// LabelsPath returns oracle_level{L}_{suffix}.jsonl.
func (l Layout) LabelsPath() string { return l.name("oracle", ".jsonl") }

// MetricsPath returns metrics_level{L}_{suffix}.prom.
func (l Layout) MetricsPath() string { return l.name("metrics", ".prom") }

// ArtifactRef returns the path of one artifact relative to Dir, as stored
// in Instance.SourcesRef.
func ArtifactRef(instanceID string, src core.Source) string {
	return filepath.ToSlash(filepath.Join(ArtifactsDir, instanceID, artifactNames[src]))
}

// sourcesOf lists the artifacts an instance of level l carries.
func sourcesOf(l core.Level) []core.Source {
	out := []core.Source{core.SourceCalendar}
	return append(out, l.Sources()...)
}
