package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSource string

// cueMu serializes use of the shared CUE context.
var (
	cueMu          sync.Mutex
	cueCtx         = cuecontext.New()
	manifestSchema cue.Value
)

func init() {
	v := cueCtx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		panic(fmt.Sprintf("catalog: invalid manifest schema: %v", err))
	}
	manifestSchema = v.LookupPath(cue.ParsePath("#Manifest"))
}

// Validate checks a generically decoded manifest against the schema.
// It catches unknown keys and references whose shape cannot be canonical
// before any of them is parsed.
func Validate(raw map[string]any) error {
	cueMu.Lock()
	defer cueMu.Unlock()

	v := cueCtx.Encode(raw)
	if err := v.Err(); err != nil {
		return fmt.Errorf("catalog: cannot encode manifest: %w", err)
	}
	if err := manifestSchema.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("catalog: manifest does not match schema: %w", err)
	}
	return nil
}
