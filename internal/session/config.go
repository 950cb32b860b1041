package session

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the session's tunable shape, decoded from an HCL file via the
// same tag-driven idiom internal/derive already uses for grammar structs.
type Config struct {
	Seed        uint64 `hcl:"seed,optional"`
	DepthExpand int    `hcl:"depth_expand,optional"`
	DepthGen    int    `hcl:"depth_generate,optional"`
	DepthIter   int    `hcl:"depth_iterate,optional"`
	OutputDir   string `hcl:"output_dir"`
	Dictionary  string `hcl:"dictionary,optional"`
}

// DefaultConfig returns the depth budgets used when a config file or caller
// leaves them unset; Seed and OutputDir are left zero.
func DefaultConfig() Config {
	return Config{
		DepthExpand: 32,
		DepthGen:    10,
		DepthIter:   16,
	}
}

// LoadConfig decodes an HCL config file at path into a Config seeded with
// DefaultConfig's values for anything the file omits.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return Config{}, fmt.Errorf("session: decode config %s: %w", path, err)
	}
	return cfg, nil
}
