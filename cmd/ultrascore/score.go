package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ultrascore/backend/internal/domain"
	"github.com/ultrascore/backend/internal/usecase"
)

var scoreJSON bool

var scoreCmd = &cobra.Command{
	Use:   "score <file|->",
	Short: "Score a product attributes file (JSON or YAML) without AI calls",
	Long: `score reads ProductAttributes from a JSON or YAML file, or from stdin when
the argument is "-", and prints the UltraScore. No safety review runs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		score, err := scoreAttributes(in)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if scoreJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(score)
		}
		_, err = fmt.Fprintln(out, renderScore(score))
		return err
	},
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the raw UltraScore JSON")
}

// scoreAttributes decodes attributes from JSON or YAML and scores them
func scoreAttributes(r io.Reader) (*domain.UltraScore, error) {
	attrs, err := decodeAttributes(r)
	if err != nil {
		return nil, err
	}
	if !attrs.IsConsumerProduct {
		return nil, domain.NewRejectionError(attrs.RejectionReason)
	}
	return usecase.CalculateUltraScore(attrs)
}

// decodeAttributes parses YAML (a superset of JSON) and re-encodes it as
// JSON so the domain's json tags drive field mapping for both formats
func decodeAttributes(r io.Reader) (*domain.ProductAttributes, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read attributes: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse attributes: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("parse attributes: empty document")
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize attributes: %w", err)
	}

	var attrs domain.ProductAttributes
	if err := json.Unmarshal(normalized, &attrs); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
	}
	return &attrs, nil
}
