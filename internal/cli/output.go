// Package cli renders clearance records for terminal output.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/lawtocode/clearance/internal/proof"
	"github.com/lawtocode/clearance/internal/store"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

const shortHashLen = 12

// PrintProofLog outputs a single proof log in the specified format.
// Table mode prints the per-rule results with the verdict and hash below.
func PrintProofLog(l *proof.Log, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(l)
	case FormatYAML:
		return printYAML(l)
	case FormatTable:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Rule", "Field", "Passed", "Details")
		for _, res := range l.Results {
			table.Append(res.RuleID, res.Field, strconv.FormatBool(res.Passed), res.Details)
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Printf("Verdict:    %s\n", l.Verdict)
		fmt.Printf("Proof hash: %s\n", l.ProofHash)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintProofRecords outputs stored proof records in the specified format.
func PrintProofRecords(records []store.ProofRecord, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(records)
	case FormatYAML:
		return printYAML(records)
	case FormatTable:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Hash", "Law", "Verdict", "Created")
		for _, rec := range records {
			table.Append(
				shorten(rec.ProofHash),
				rec.LawTitle,
				rec.Verdict,
				rec.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		return table.Render()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintUseCases outputs use cases in the specified format.
func PrintUseCases(usecases []store.UseCase, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(usecases)
	case FormatYAML:
		return printYAML(usecases)
	case FormatTable:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID", "System", "Purpose", "Record Hash", "Created")
		for _, uc := range usecases {
			purpose := uc.Purpose
			if len(purpose) > 40 {
				purpose = purpose[:37] + "..."
			}
			table.Append(
				strconv.FormatInt(uc.ID, 10),
				uc.SystemName,
				purpose,
				shorten(uc.RecordHash),
				uc.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		return table.Render()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintJSONOrYAML outputs data as JSON or YAML. Table format falls back
// to JSON for values with no tabular shape (schemas, single records).
func PrintJSONOrYAML(data any, format OutputFormat) error {
	switch format {
	case FormatYAML:
		return printYAML(data)
	case FormatJSON, FormatTable:
		return printJSON(data)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(data any) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func shorten(hash string) string {
	if len(hash) <= shortHashLen {
		return hash
	}
	return hash[:shortHashLen]
}
