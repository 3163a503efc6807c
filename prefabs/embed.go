package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml scripts/*.tengo
var files embed.FS

// Dir is the on-disk copy of this package's data, relative to the working
// directory. Files found there win over the embedded ones so tuning edits
// apply without a rebuild. Empty disables the disk lookup.
var Dir = "prefabs"

// Load reads a yaml file such as "stack.yaml" or "prefabs/level.yaml".
func Load(name string) ([]byte, error) {
	return read(trimRoot(name))
}

// LoadScript reads a tengo script. "hud.tengo", "scripts/hud.tengo" and
// "prefabs/scripts/hud.tengo" name the same file.
func LoadScript(name string) ([]byte, error) {
	return read(path.Join("scripts", strings.TrimPrefix(trimRoot(name), "scripts/")))
}

// WatchDirs lists the directories a Watcher should observe for Dir.
func WatchDirs() []string {
	if Dir == "" {
		return nil
	}
	return []string{Dir, filepath.Join(Dir, "scripts")}
}

func read(rel string) ([]byte, error) {
	if Dir != "" {
		if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(rel))); err == nil {
			return data, nil
		}
	}
	return files.ReadFile(rel)
}

func trimRoot(name string) string {
	return strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
}
