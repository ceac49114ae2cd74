// Package artifact packages an agent source tree and its resolved
// dependency manifest into a deployable bundle.
package artifact

import (
	"fmt"
	"regexp"
	"strings"
)

// ManifestFileName is the conventional manifest location inside the source
// root; writing it there makes the pins travel with the bundle.
const ManifestFileName = "requirements.txt"

// Descriptor identifies everything the engine needs to run a packaged
// agent. It is built once per deploy and never mutated afterwards.
type Descriptor struct {
	SourceRoot   string
	Module       string
	Object       string
	ManifestPath string
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Entrypoint renders the module:object reference.
func (d Descriptor) Entrypoint() string {
	return d.Module + ":" + d.Object
}

// ParseEntrypoint splits and validates a module:object reference such as
// "app.agent_engine_app:agent_engine". Validation happens before any I/O so
// a malformed reference never reaches the remote target.
func ParseEntrypoint(ref string) (module, object string, err error) {
	module, object, ok := strings.Cut(ref, ":")
	if !ok {
		return "", "", fmt.Errorf("entrypoint %q must be module:object", ref)
	}
	if module == "" || object == "" {
		return "", "", fmt.Errorf("entrypoint %q must name both module and object", ref)
	}
	for _, part := range strings.Split(module, ".") {
		if !identPattern.MatchString(part) {
			return "", "", fmt.Errorf("entrypoint module %q is not a valid dotted path", module)
		}
	}
	if !identPattern.MatchString(object) {
		return "", "", fmt.Errorf("entrypoint object %q is not a valid identifier", object)
	}
	return module, object, nil
}
