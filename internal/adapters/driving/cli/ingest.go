package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Seed the condition store from a JSON or YAML file",
	Long: `Reads a list of {disease, symptom} records and stores their embeddings.

The file is decoded as YAML when its extension is .yaml or .yml and as
JSON otherwise. Records are only stored when the collection is empty;
a populated collection is left untouched.

Example seed file (YAML):
  - disease: Influenza
    symptom: fever, cough, muscle aches
  - disease: Migraine
    symptom: throbbing headache, nausea, light sensitivity`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	body, err := readSeedFile(args[0])
	if err != nil {
		return err
	}
	inputs, verr := domain.ValidateConditionBatch(body)
	if verr != nil {
		return verr
	}

	if ingestionService == nil {
		if err := ensureServices(cmd.Context(), false); err != nil {
			return err
		}
	}
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	result, err := ingestionService.Ingest(cmd.Context(), inputs)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Println(result.Message)
	if !result.Skipped {
		cmd.Printf("Processed: %d\n", result.Processed)
	}
	return nil
}

// readSeedFile decodes path into the generic shape request bodies have,
// so file and HTTP ingestion share one validator.
func readSeedFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var body any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &body)
	default:
		err = json.Unmarshal(data, &body)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", domain.ErrInvalidInput, filepath.Base(path), err)
	}
	return body, nil
}
