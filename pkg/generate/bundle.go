package generate

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/tools/txtar"

	"github.com/cmmoran/clientgen/pkg/errors"
)

// Bundle archives artifacts as txtar, one file per artifact named
// "<language>/<path>". The comment records the artifact count so an empty
// generation still yields a readable archive.
func Bundle(artifacts []Artifact) []byte {
	sorted := append([]Artifact(nil), artifacts...)
	Sort(sorted)
	ar := &txtar.Archive{Comment: []byte(bundleComment(len(sorted)))}
	for _, a := range sorted {
		content := a.Content
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		ar.Files = append(ar.Files, txtar.File{Name: path.Join(a.Language, a.Path), Data: []byte(content)})
	}
	return txtar.Format(ar)
}

func bundleComment(n int) string {
	if n == 1 {
		return "clientgen bundle: 1 artifact\n"
	}
	return fmt.Sprintf("clientgen bundle: %d artifacts\n", n)
}

// Unbundle reads a bundle back into artifacts. Only the language, path and
// content survive the round trip.
func Unbundle(data []byte) ([]Artifact, error) {
	ar := txtar.Parse(data)
	out := make([]Artifact, 0, len(ar.Files))
	for _, f := range ar.Files {
		lang, p, ok := strings.Cut(f.Name, "/")
		if !ok || p == "" {
			return nil, errors.InvalidInputf("bundle entry %q has no language directory", f.Name)
		}
		out = append(out, Artifact{Language: lang, Path: p, Content: string(f.Data)})
	}
	return out, nil
}
