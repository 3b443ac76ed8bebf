package cmd

import (
	"fmt"
	"log/slog"

	"github.com/flowsmith/flowsmith/pkg/store"
)

// NewStore creates the workflow record store for the given URL. Empty URL
// means the in-memory store.
func NewStore(url string, logger *slog.Logger) store.Store {
	workflowStore, err := store.NewFromURL(url)
	if err != nil {
		panic(fmt.Errorf("failed to create workflow store: %w", err))
	}

	if url == "" {
		logger.Warn("no store URL configured, generated workflows are kept in memory only")
	}

	return workflowStore
}
