// Package snapshot records generation bundles in a manifest and compares them.
package snapshot

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/cmmoran/clientgen/pkg/action/build"
	"github.com/cmmoran/clientgen/pkg/config"
	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/generate"
	"github.com/cmmoran/clientgen/pkg/language"
	"github.com/cmmoran/clientgen/pkg/logging"
	"github.com/cmmoran/clientgen/pkg/manifest"
)

// Dir is where bundles are kept, relative to the manifest.
const Dir = "snapshots"

// Take generates the clients of cfg, writes them as a bundle next to the
// manifest and records the bundle as the current version.
func Take(ctx context.Context, cfg *config.GenerationConfiguration, langs []language.Language, manifestPath, name, version string) (string, error) {
	if name == "" || version == "" {
		return "", errors.InvalidInputf("a snapshot needs a name and a version")
	}
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}
	l := logging.Named("snapshot")
	artifacts, err := build.Artifacts(ctx, cfg, langs, l)
	if err != nil {
		return "", err
	}

	rel := path.Join(Dir, name+"-"+version+".txtar")
	out := filepath.Join(filepath.Dir(manifestPath), filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", errors.Wrap(err, "create snapshot directory")
	}
	if err := os.WriteFile(out, generate.Bundle(artifacts), 0o644); err != nil {
		return "", errors.Wrap(err, "write snapshot")
	}

	seen := map[string]struct{}{}
	var names []string
	for _, a := range artifacts {
		if _, ok := seen[a.Language]; !ok {
			seen[a.Language] = struct{}{}
			names = append(names, a.Language)
		}
	}
	m.AddSnapshot(manifest.Snapshot{Name: name, Version: version, Languages: names, File: rel, Artifacts: len(artifacts)})
	if err := m.Save(manifestPath); err != nil {
		return "", err
	}
	l.Info("took snapshot", zap.String("version", version), zap.String("file", out))
	return out, nil
}

// List returns all snapshots recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious compares the bundles of the current and previous
// versions artifact by artifact. An empty result means they are identical.
func DiffCurrentWithPrevious(manifestPath string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", errors.WithHint(errors.InvalidInputf("no current/previous snapshots recorded"), "take two snapshots with different versions first")
	}

	previous, err := load(manifestPath, m, m.PreviousVersion)
	if err != nil {
		return "", err
	}
	current, err := load(manifestPath, m, m.CurrentVersion)
	if err != nil {
		return "", err
	}

	return cmp.Diff(previous, current), nil
}

// load reads the bundle of version into a map keyed by "<language>/<path>".
func load(manifestPath string, m *manifest.Manifest, version string) (map[string]string, error) {
	file := m.SnapshotFile(version)
	if file == "" {
		return nil, errors.InvalidInputf("snapshot file of %s not found in manifest", version)
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(filepath.Dir(manifestPath), filepath.FromSlash(file))
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read snapshot %s", version)
	}
	artifacts, err := generate.Unbundle(data)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot %s", version)
	}
	out := make(map[string]string, len(artifacts))
	for _, a := range artifacts {
		out[path.Join(a.Language, a.Path)] = a.Content
	}
	return out, nil
}
