package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vsinha/shiptrack/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	LoadTime  time.Duration
	Source    string
	Role      string
	// Out receives stdout-style output; nil means os.Stdout
	Out io.Writer
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Generate renders evaluated item rows in the specified format
func Generate(statuses []dto.ItemStatus, config Config) error {
	switch config.Format {
	case "", "text":
		return generateTextOutput(statuses, config)
	case "json":
		return generateJSONOutput(statuses, config)
	case "csv":
		return generateCSVOutput(statuses, config)
	case "svg":
		return generateSVGOutput(statuses, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput prints a human-readable status table
func generateTextOutput(statuses []dto.ItemStatus, config Config) error {
	w := config.out()

	ready, atRisk, behind := 0, 0, 0
	for _, s := range statuses {
		if s.Ready {
			ready++
		}
		if s.ScheduleRisk {
			atRisk++
		}
		if s.Deviation.String() == "Behind" {
			behind++
		}
	}

	fmt.Fprintf(w, "📊 Production Status Summary\n")
	fmt.Fprintf(w, "============================\n\n")
	fmt.Fprintf(w, "Items: %d\n", len(statuses))
	fmt.Fprintf(w, "Ready to Ship: %d\n", ready)
	fmt.Fprintf(w, "At Risk: %d\n", atRisk)
	fmt.Fprintf(w, "Behind Schedule: %d\n", behind)
	if config.Verbose {
		fmt.Fprintf(w, "Load Time: %v\n", config.LoadTime)
	}
	fmt.Fprintln(w)

	if len(statuses) == 0 {
		return nil
	}

	fmt.Fprintf(w, "📋 Items by Current Ship Date:\n")
	fmt.Fprintf(w, "%-16s %-20s %-10s %-12s %-12s %-9s %-15s %-8s %-6s\n",
		"Type", "Designation", "SO", "Original", "Current", "Status", "Components", "Risk", "Ready")
	fmt.Fprintf(w, "%-16s %-20s %-10s %-12s %-12s %-9s %-15s %-8s %-6s\n",
		"----------------", "--------------------", "----------", "------------", "------------",
		"---------", "---------------", "--------", "------")

	for _, s := range statuses {
		risk := ""
		if s.ScheduleRisk {
			risk = "⚠️ RISK"
		}
		fmt.Fprintf(w, "%-16s %-20s %-10s %-12s %-12s %-9s %-15s %-8s %-6s\n",
			s.Item.Kind.Label(),
			truncate(s.Item.DisplayName(), 20),
			s.Item.SalesOrder,
			s.Item.OriginalShipDate,
			s.Item.CurrentShipDate,
			s.Deviation,
			s.ComponentStatus,
			risk,
			yesNo(s.Ready))
	}
	fmt.Fprintln(w)

	return nil
}

// jsonEnvelope is the document written for --format json
type jsonEnvelope struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Source      string           `json:"source,omitempty"`
	Role        string           `json:"role,omitempty"`
	Items       []dto.ItemStatus `json:"items"`
}

// generateJSONOutput creates JSON output
func generateJSONOutput(statuses []dto.ItemStatus, config Config) error {
	if statuses == nil {
		statuses = []dto.ItemStatus{}
	}
	jsonData, err := json.MarshalIndent(jsonEnvelope{
		GeneratedAt: time.Now().UTC(),
		Source:      config.Source,
		Role:        config.Role,
		Items:       statuses,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.out(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "item_status.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

var csvHeader = []string{
	"id", "kind", "designation_or_description", "sales_order", "customer",
	"original_ship_date", "current_ship_date", "ship_date_status", "component_status",
	"received_percent", "schedule_risk", "ready_to_ship", "completed",
}

// generateCSVOutput writes one row per item to item_status.csv, or to Out without a directory
func generateCSVOutput(statuses []dto.ItemStatus, config Config) error {
	if config.OutputDir == "" {
		return writeStatusCSV(statuses, config.out())
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "item_status.csv")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := writeStatusCSV(statuses, file); err != nil {
		return fmt.Errorf("failed to write item status CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 CSV results saved to: %s\n", filename)
	}
	return nil
}

func writeStatusCSV(statuses []dto.ItemStatus, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range statuses {
		record := []string{
			s.Item.ID,
			string(s.Item.Kind),
			s.Item.DisplayName(),
			s.Item.SalesOrder,
			s.Item.Customer,
			s.Item.OriginalShipDate.String(),
			s.Item.CurrentShipDate.String(),
			s.Deviation.String(),
			s.ComponentStatus,
			s.ReceivedPercent.StringFixed(1),
			fmt.Sprintf("%t", s.ScheduleRisk),
			fmt.Sprintf("%t", s.Ready),
			fmt.Sprintf("%t", s.Item.Completed),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
