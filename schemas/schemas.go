// Package schemas embeds the presentation-schema documents shipped with
// the module, so tools can run without any schema file on disk.
package schemas

import (
	"embed"
	"fmt"
	"sort"
)

//go:embed *.yaml
var files embed.FS

// ArabicFile is the name of the embedded Arabic leaderboard schema.
const ArabicFile = "arabic.yaml"

// Arabic returns the canonical Arabic leaderboard schema document.
func Arabic() []byte {
	data, err := files.ReadFile(ArabicFile)
	if err != nil {
		// The file is compiled into the binary; a read failure is a build
		// defect, not a runtime condition.
		panic(fmt.Sprintf("embedded schema %s: %v", ArabicFile, err))
	}
	return data
}

// Names returns the names of all embedded schema documents in sorted
// order.
func Names() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		panic(fmt.Sprintf("embedded schema directory: %v", err))
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

// Read returns the embedded schema document with the given name.
// The error wraps fs.ErrNotExist for unknown names.
func Read(name string) ([]byte, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("embedded schema %q: %w", name, err)
	}
	return data, nil
}
