// Package lang maps language names to the runtime versions pinned for the sandbox.
package lang

import (
	"errors"
	"fmt"
	"strings"
)

// Spec pins a supported language to one runtime version and source file extension.
type Spec struct {
	Name      string
	Version   string
	Extension string
}

// ErrNotSupported is returned when no pinned version exists for a language.
var ErrNotSupported = errors.New("language not supported")

// table is fixed at build time. Versions match the runtimes installed on the
// sandbox; bumping one means re-verifying against the sandbox's runtime list.
var table = map[string]Spec{
	"python":     {Name: "python", Version: "3.10.0", Extension: ".py"},
	"javascript": {Name: "javascript", Version: "18.15.0", Extension: ".js"},
	"java":       {Name: "java", Version: "15.0.2", Extension: ".java"},
	"c":          {Name: "c", Version: "10.2.0", Extension: ".c"},
	"cpp":        {Name: "cpp", Version: "10.2.0", Extension: ".cpp"},
}

// Resolve maps a language name to its pinned spec. Lookup is case-insensitive.
// Unknown languages return ErrNotSupported, never a guessed default: the
// sandbox's "*" wildcard is reserved for callers that pin a version themselves.
func Resolve(name string) (Spec, error) {
	s, ok := table[strings.ToLower(name)]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s", ErrNotSupported, name)
	}
	return s, nil
}

// Filename returns the staged source file name for a language. For languages
// outside the table the raw name doubles as the extension, which is what the
// sandbox expects for unpinned requests.
func Filename(language string) string {
	if s, err := Resolve(language); err == nil {
		return "main" + s.Extension
	}
	return "main." + strings.ToLower(language)
}
