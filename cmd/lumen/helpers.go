package main

import (
	"fmt"

	"github.com/lumenvcs/lumen"
	"github.com/lumenvcs/lumen/internal/pathutil"
)

// loadRepository finds the working tree containing cfg.C and opens
// the repository rooted there.
func loadRepository(cfg *globalFlags) (*lumen.Repository, error) {
	root, err := pathutil.WorkingTreeFromPath(cfg.C.String())
	if err != nil {
		return nil, fmt.Errorf("could not find repository: %w", err)
	}
	return lumen.Open(root)
}
