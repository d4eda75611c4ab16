package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
	"github.com/lauvickie617/vickie-ai-portfolio/provider"
)

var (
	setupDir          string
	storesDeleteForce bool
)

var setupStoreCmd = &cobra.Command{
	Use:   "setup-store",
	Short: "Create a File Search store from the portfolio documents",
	Long: `Upload every supported document (resume, project write-ups) to a new
Gemini File Search store and save the store name to config.toml.

Documents are read from <data_dir>/documents unless --dir is given.`,
	Args: cobra.NoArgs,
	RunE: runSetupStore,
}

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "Manage File Search stores",
}

var storesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List File Search stores",
	Args:  cobra.NoArgs,
	RunE:  runStoresList,
}

var storesDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a File Search store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoresDelete,
}

func init() {
	setupStoreCmd.Flags().StringVar(&setupDir, "dir", "", "Directory of documents to upload")
	storesDeleteCmd.Flags().BoolVar(&storesDeleteForce, "force", false, "Delete the store even if it still holds documents")
}

func documentsDir(cfg *config.Config) string {
	if setupDir != "" {
		return config.ExpandPath(setupDir)
	}
	return config.DocumentsDir(cfg.DataDir())
}

func newStoreManager(cmd *cobra.Command, cfg *config.Config) (*provider.StoreManager, error) {
	client, err := provider.NewGeminiClient(cmd.Context(), provider.Config{
		Type:    provider.ProviderTypeGemini,
		BaseURL: cfg.ProviderBaseURL,
		APIKey:  cfg.GeminiAPIKey,
	})
	if err != nil {
		if errors.Is(err, provider.ErrMissingAPIKey) {
			return nil, fmt.Errorf("%w: set GEMINI_API_KEY or gemini.api_key in %s",
				err, config.UserConfigPath(cfg.DataDir()))
		}
		return nil, err
	}
	return provider.NewStoreManager(client, logger), nil
}

func runSetupStore(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := documentsDir(cfg)
	if !config.FileExists(dir) {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create documents directory: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n", dir)
		fmt.Fprintf(out, "Add your documents (%s) there and run setup-store again.\n",
			strings.Join(provider.SupportedExtensions(), ", "))
		return nil
	}

	mgr, err := newStoreManager(cmd, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Uploading documents from %s...\n", dir)
	result, err := mgr.Setup(cmd.Context(), dir, time.Now())
	if err != nil {
		if errors.Is(err, provider.ErrNoDocuments) {
			fmt.Fprintf(out, "No documents found. Supported types: %s\n",
				strings.Join(provider.SupportedExtensions(), ", "))
		}
		return err
	}

	for _, name := range result.Uploaded {
		fmt.Fprintf(out, "  ✓ %s\n", name)
	}
	failed := make([]string, 0, len(result.Failed))
	for name := range result.Failed {
		failed = append(failed, name)
	}
	sort.Strings(failed)
	for _, name := range failed {
		fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Failed[name])
	}

	if len(result.Uploaded) == 0 {
		return fmt.Errorf("no documents were uploaded to %s", result.StoreName)
	}

	if err := config.SaveStoreName(cfg.DataDir(), result.StoreName); err != nil {
		fmt.Fprintf(out, "\nStore created: %s\n", result.StoreName)
		fmt.Fprintf(out, "Set FILE_SEARCH_STORE_NAME=%s to use it.\n", result.StoreName)
		return fmt.Errorf("failed to save store name: %w", err)
	}

	logger.Info("file search store ready",
		zap.String("store", result.StoreName),
		zap.Int("uploaded", len(result.Uploaded)),
		zap.Int("failed", len(result.Failed)))
	fmt.Fprintf(out, "\nStore created: %s\n", result.StoreName)
	fmt.Fprintf(out, "Saved to %s\n", config.UserConfigPath(cfg.DataDir()))
	return nil
}

func runStoresList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mgr, err := newStoreManager(cmd, cfg)
	if err != nil {
		return err
	}

	stores, err := mgr.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		fmt.Fprintln(out, "No File Search stores.")
		return nil
	}
	for _, s := range stores {
		marker := " "
		if s.Name == cfg.FileSearchStoreName {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s  %s  (%d active documents)\n", marker, s.Name, s.DisplayName, s.ActiveDocumentsCount)
	}
	return nil
}

func runStoresDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mgr, err := newStoreManager(cmd, cfg)
	if err != nil {
		return err
	}

	name := args[0]
	if err := mgr.Delete(cmd.Context(), name, storesDeleteForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
	if name == cfg.FileSearchStoreName {
		fmt.Fprintln(cmd.OutOrStdout(), "This was the configured store; run setup-store to create a new one.")
	}
	return nil
}
