// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/renameio/v2"

	"github.com/ManuGH/m3ucat/internal/catalog"
	xclog "github.com/ManuGH/m3ucat/internal/log"
)

// WriteCatalog writes the catalog JSON with full durability guarantees:
// renameio gives temp file creation, fsync before rename and cleanup on
// error, so readers never observe a half-written catalog.
func WriteCatalog(ctx context.Context, path string, items []catalog.ContentItem) error {
	logger := xclog.WithComponentFromContext(ctx, "jobs")

	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending catalog file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending catalog file")
		}
	}()

	enc := json.NewEncoder(pendingFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace catalog file: %w", err)
	}
	return nil
}
