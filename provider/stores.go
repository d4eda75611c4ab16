package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// StoreNamePrefix prefixes the display name of every store setup creates.
const StoreNamePrefix = "vickie-portfolio-"

const defaultPollInterval = 2 * time.Second

// ErrNoDocuments is returned by Setup when the documents directory holds
// nothing to upload.
var ErrNoDocuments = errors.New("no supported documents found")

var mimeTypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
	".json": "application/json",
}

// SupportedExtensions lists the document extensions setup uploads.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(mimeTypes))
	for ext := range mimeTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// MIMEType maps a file name to the MIME type sent with its upload.
// Unknown extensions are sent as text/plain.
func MIMEType(path string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "text/plain"
}

// IsDocument reports whether a file name is uploaded by setup. README.md is
// the folder's own instructions and is skipped.
func IsDocument(name string) bool {
	if name == "README.md" {
		return false
	}
	_, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

// CollectDocuments returns the uploadable files directly inside dir, sorted
// by name. Subdirectories are not descended into.
func CollectDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents directory: %w", err)
	}

	var docs []string
	for _, entry := range entries {
		if entry.IsDir() || !IsDocument(entry.Name()) {
			continue
		}
		docs = append(docs, filepath.Join(dir, entry.Name()))
	}
	return docs, nil
}

// StoreDisplayName names a new store after its creation time.
func StoreDisplayName(now time.Time) string {
	return StoreNamePrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// StoreManager creates, fills, lists and deletes File Search stores.
type StoreManager struct {
	client       *genai.Client
	logger       *zap.Logger
	PollInterval time.Duration
}

func NewStoreManager(client *genai.Client, logger *zap.Logger) *StoreManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreManager{
		client:       client,
		logger:       logger,
		PollInterval: defaultPollInterval,
	}
}

func (m *StoreManager) Create(ctx context.Context, displayName string) (*genai.FileSearchStore, error) {
	store, err := m.client.FileSearchStores.Create(ctx, &genai.CreateFileSearchStoreConfig{
		DisplayName: displayName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create file search store: %w", err)
	}
	m.logger.Info("file search store created", zap.String("store", store.Name), zap.String("display_name", displayName))
	return store, nil
}

func (m *StoreManager) Get(ctx context.Context, name string) (*genai.FileSearchStore, error) {
	store, err := m.client.FileSearchStores.Get(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get file search store %s: %w", name, err)
	}
	return store, nil
}

// Upload sends one document to the store and waits until it is indexed.
func (m *StoreManager) Upload(ctx context.Context, storeName, path string) error {
	displayName := filepath.Base(path)
	op, err := m.client.FileSearchStores.UploadToFileSearchStoreFromPath(ctx, path, storeName, &genai.UploadToFileSearchStoreConfig{
		DisplayName: displayName,
		MIMEType:    MIMEType(path),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", displayName, err)
	}

	return m.waitForUpload(ctx, displayName, op)
}

func (m *StoreManager) waitForUpload(ctx context.Context, displayName string, op *genai.UploadToFileSearchStoreOperation) error {
	ticker := time.NewTicker(m.PollInterval)
	defer ticker.Stop()

	for !op.Done {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		next, err := m.client.Operations.GetUploadToFileSearchStoreOperation(ctx, op, nil)
		if err != nil {
			return fmt.Errorf("failed to poll upload of %s: %w", displayName, err)
		}
		op = next
		m.logger.Debug("upload in progress", zap.String("file", displayName), zap.Bool("done", op.Done))
	}

	if len(op.Error) > 0 {
		return fmt.Errorf("upload of %s failed: %v", displayName, op.Error["message"])
	}
	return nil
}

// List returns every File Search store of the account.
func (m *StoreManager) List(ctx context.Context) ([]*genai.FileSearchStore, error) {
	var stores []*genai.FileSearchStore
	for store, err := range m.client.FileSearchStores.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list file search stores: %w", err)
		}
		stores = append(stores, store)
	}
	return stores, nil
}

// Delete removes a store. With force, its documents are deleted too;
// otherwise a store that still holds documents is refused by the API.
func (m *StoreManager) Delete(ctx context.Context, name string, force bool) error {
	var cfg *genai.DeleteFileSearchStoreConfig
	if force {
		cfg = &genai.DeleteFileSearchStoreConfig{Force: genai.Ptr(true)}
	}
	if err := m.client.FileSearchStores.Delete(ctx, name, cfg); err != nil {
		return fmt.Errorf("failed to delete file search store %s: %w", name, err)
	}
	m.logger.Info("file search store deleted", zap.String("store", name))
	return nil
}

// SetupResult summarizes a Setup run.
type SetupResult struct {
	StoreName string
	Uploaded  []string
	Failed    map[string]error
}

// Setup creates a fresh store and uploads every document in dir to it.
// A failed upload is recorded and the remaining files are still sent.
func (m *StoreManager) Setup(ctx context.Context, dir string, now time.Time) (*SetupResult, error) {
	docs, err := CollectDocuments(dir)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, dir)
	}

	store, err := m.Create(ctx, StoreDisplayName(now))
	if err != nil {
		return nil, err
	}

	result := &SetupResult{
		StoreName: store.Name,
		Failed:    make(map[string]error),
	}
	for _, doc := range docs {
		name := filepath.Base(doc)
		m.logger.Info("uploading document", zap.String("file", name), zap.String("mime_type", MIMEType(doc)))
		if err := m.Upload(ctx, store.Name, doc); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			m.logger.Warn("document upload failed", zap.String("file", name), zap.Error(err))
			result.Failed[name] = err
			continue
		}
		result.Uploaded = append(result.Uploaded, name)
	}

	return result, nil
}
