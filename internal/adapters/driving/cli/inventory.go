package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/docsweep/docsweep-cli/internal/adapters/driven/inventory/memory"
	"github.com/docsweep/docsweep-cli/internal/adapters/driven/inventory/sqlite"
	"github.com/docsweep/docsweep-cli/internal/core/domain"
	"github.com/docsweep/docsweep-cli/internal/core/ports/driven"
)

// openInventory builds an InventoryStore from the --db or --inventory
// flags. A SQLite database carries its own embeddings; a JSON inventory
// may pair with a separate embeddings file.
func openInventory(dbPath, jsonPath, embeddingsPath string) (driven.InventoryStore, error) {
	switch {
	case dbPath != "" && jsonPath != "":
		return nil, errors.New("specify either --db or --inventory, not both")
	case dbPath != "":
		return sqlite.NewStore(dbPath)
	case jsonPath != "":
		return jsonInventory(jsonPath, embeddingsPath)
	default:
		return nil, errors.New("an inventory is required: pass --db or --inventory")
	}
}

// jsonInventory loads a JSON document list, and optionally a JSON
// embeddings map, into an in-memory store.
func jsonInventory(jsonPath, embeddingsPath string) (driven.InventoryStore, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("reading inventory: %w", err)
	}

	var docs []domain.DocumentRecord
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing inventory %s: %w", jsonPath, err)
	}

	var embeddings map[string][]float32
	if embeddingsPath != "" {
		raw, err := os.ReadFile(embeddingsPath)
		if err != nil {
			return nil, fmt.Errorf("reading embeddings: %w", err)
		}
		if err := json.Unmarshal(raw, &embeddings); err != nil {
			return nil, fmt.Errorf("parsing embeddings %s: %w", embeddingsPath, err)
		}
	}

	return memory.NewStore(docs, embeddings), nil
}
