package reports

import (
	"context"
	"fmt"

	"tmyreport/internal/logger"
	"tmyreport/internal/storage"
)

// StorageOrchestrator handles the business logic of storing generated files
type StorageOrchestrator struct {
	storage storage.StorageClient
	log     *logger.Logger
}

// NewStorageOrchestrator creates a new storage orchestrator
func NewStorageOrchestrator(client storage.StorageClient) *StorageOrchestrator {
	return &StorageOrchestrator{
		storage: client,
		log:     logger.GetGlobalLogger().WithComponent("storage"),
	}
}

// StoreAllFiles writes every generated file into the report folder and returns
// how many were stored. index.html goes last so a listed report is complete.
func (so *StorageOrchestrator) StoreAllFiles(ctx context.Context, files *GeneratedFiles) (int, error) {
	if exists, err := so.storage.FileExists(ctx, files.FolderPath+"/"+IndexFile); err == nil && exists {
		so.log.Warn("Replacing existing report", map[string]interface{}{"folder": files.FolderPath})
	}
	if err := so.storage.CreateDir(ctx, files.FolderPath); err != nil {
		return 0, fmt.Errorf("failed to create report folder: %w", err)
	}

	all := files.All()
	stored := 0
	for _, name := range files.Names() {
		if name == IndexFile {
			continue
		}
		if err := so.store(ctx, files.FolderPath, name, all[name]); err != nil {
			return stored, err
		}
		stored++
	}
	if err := so.store(ctx, files.FolderPath, IndexFile, all[IndexFile]); err != nil {
		return stored, err
	}
	stored++

	so.log.Info("Report stored", map[string]interface{}{
		"folder": files.FolderPath,
		"files":  stored,
	})
	return stored, nil
}

func (so *StorageOrchestrator) store(ctx context.Context, folder, name string, data []byte) error {
	if err := so.storage.StoreFile(ctx, folder+"/"+name, data); err != nil {
		return fmt.Errorf("failed to store %s: %w", name, err)
	}
	return nil
}
