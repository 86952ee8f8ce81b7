// Package initialize scaffolds a starter configuration and API description.
package initialize

import (
	"embed"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cmmoran/clientgen/pkg/errors"
	"github.com/cmmoran/clientgen/pkg/logging"
)

//go:embed starter/*.yaml
var starter embed.FS

// Files are the names Scaffold writes, in order.
var Files = []string{"clientgen.yaml", "api.yaml"}

// Scaffold writes the starter files into dir and returns their paths.
// Existing files are left alone unless force is set.
func Scaffold(dir string, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create scaffold directory")
	}
	l := logging.Named("initialize")
	written := make([]string, 0, len(Files))
	for _, name := range Files {
		target := filepath.Join(dir, name)
		if _, err := os.Stat(target); err == nil && !force {
			return written, errors.WithHint(
				errors.InvalidInputf("%s already exists", target),
				"pass --force to overwrite it",
			)
		}
		data, err := starter.ReadFile("starter/" + name)
		if err != nil {
			return written, errors.Wrapf(err, "read starter %s", name)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return written, errors.Wrapf(err, "write %s", target)
		}
		l.Info("wrote starter file", zap.String("path", target))
		written = append(written, target)
	}
	return written, nil
}
