package commands

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/vsinha/shiptrack/pkg/domain/entities"
	"github.com/vsinha/shiptrack/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Items             int     // Total number of production items to generate
	MaxPurchaseOrders int     // Upper bound of purchase orders per item
	MaxComponents     int     // Upper bound of components per purchase order
	ReceivedRatio     float64 // Share of components already received (0..1)
	StartDate         string  // First ship date of the schedule window, YYYY-MM-DD
	OutputDir         string  // Output directory for generated files
	Seed              int64   // Random seed for reproducible generation
	Verbose           bool    // Verbose output
	Out               io.Writer
}

// GenerateCommand writes a synthetic shop-floor scenario
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
}

var (
	customers   = []string{"Acme Electric", "Beta Builders", "Cascade Utilities", "Delta Data Centers", "Evergreen Hospital"}
	vendors     = []string{"Graybar", "Border States", "CED", "Wesco", "Crescent"}
	enclosures  = []string{"NEMA 1", "NEMA 3R", "NEMA 4X", "NEMA 12"}
	unitTypes   = []string{"Motor Control Center", "Panelboard", "Transfer Switch", "Switchgear"}
	partNames   = []string{"Main Breaker", "Feeder Breaker", "Bus Bar", "Meter", "CT Kit", "Surge Protector", "Relay", "Enclosure"}
	miscEntries = []string{"Spare fuse kit", "Touch-up paint", "Lifting beam", "Key interlock set", "Drawing package"}
)

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	start := entities.Today()
	if cmd.config.StartDate != "" {
		d, err := entities.ParseDate(cmd.config.StartDate)
		if err != nil {
			return fmt.Errorf("validation error: start date: %w", err)
		}
		start = d
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.config.Out,
			"🔧 Generating scenario with %d items, up to %d purchase orders per item, up to %d components per order\n",
			cmd.config.Items, cmd.config.MaxPurchaseOrders, cmd.config.MaxComponents)
		fmt.Fprintf(cmd.config.Out, "📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(cmd.config.Out, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	items := make([]*entities.ProductionItem, 0, cmd.config.Items)
	for i := 0; i < cmd.config.Items; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		items = append(items, cmd.generateItem(i, start))
	}

	if err := csv.WriteScenario(cmd.config.OutputDir, items); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.config.Out, "✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}
	return nil
}

func (cmd *GenerateCommand) validate() error {
	if cmd.config.Items <= 0 {
		return fmt.Errorf("items must be positive")
	}
	if cmd.config.MaxPurchaseOrders < 0 || cmd.config.MaxComponents < 0 {
		return fmt.Errorf("purchase order and component limits cannot be negative")
	}
	if cmd.config.ReceivedRatio < 0 || cmd.config.ReceivedRatio > 1 {
		return fmt.Errorf("received ratio must be between 0 and 1")
	}
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}

// generateItem creates one item with ship dates spread over twelve weeks from start
func (cmd *GenerateCommand) generateItem(n int, start entities.Date) *entities.ProductionItem {
	original := start.AddDays(cmd.rand.Intn(84))
	current := original.AddDays(cmd.rand.Intn(21) - 10)

	item := &entities.ProductionItem{
		SalesOrder:       fmt.Sprintf("SO-%05d", 10000+n),
		Customer:         pick(cmd.rand, customers),
		JobName:          fmt.Sprintf("Job %03d", n+1),
		DrawingRevision:  string(rune('A' + cmd.rand.Intn(5))),
		OriginalShipDate: original,
		CurrentShipDate:  current,
	}

	switch cmd.rand.Intn(4) {
	case 0, 1:
		item.ID = fmt.Sprintf("A-%04d", n+1)
		item.Kind = entities.KindAssembled
		item.Assembled = &entities.AssembledUnit{
			Designation:   fmt.Sprintf("SWBD-%d", n+1),
			EnclosureType: pick(cmd.rand, enclosures),
			Sections:      1 + cmd.rand.Intn(6),
		}
	case 2:
		item.ID = fmt.Sprintf("I-%04d", n+1)
		item.Kind = entities.KindIntegrated
		item.Integrated = &entities.IntegratedUnit{
			Designation: fmt.Sprintf("MCC-%d", n+1),
			TypeLabel:   pick(cmd.rand, unitTypes),
		}
	default:
		item.ID = fmt.Sprintf("M-%04d", n+1)
		item.Kind = entities.KindMisc
		item.Misc = &entities.MiscItem{
			Quantity:    entities.Quantity(1 + cmd.rand.Intn(24)),
			Description: pick(cmd.rand, miscEntries),
		}
	}

	poCount := 0
	if cmd.config.MaxPurchaseOrders > 0 {
		poCount = cmd.rand.Intn(cmd.config.MaxPurchaseOrders + 1)
	}
	for p := 0; p < poCount; p++ {
		item.PurchaseOrders = append(item.PurchaseOrders, cmd.generatePurchaseOrder(item, p))
	}

	return item
}

// generatePurchaseOrder creates components due mostly ahead of the item's risk buffer,
// with roughly one in five landing inside it
func (cmd *GenerateCommand) generatePurchaseOrder(item *entities.ProductionItem, p int) *entities.PurchaseOrder {
	po := &entities.PurchaseOrder{
		ID:       fmt.Sprintf("%s-P%d", item.ID, p+1),
		PONumber: fmt.Sprintf("PO-%s-%d", item.SalesOrder[3:], p+1),
		Vendor:   pick(cmd.rand, vendors),
	}

	componentCount := 0
	if cmd.config.MaxComponents > 0 {
		componentCount = cmd.rand.Intn(cmd.config.MaxComponents + 1)
	}
	for c := 0; c < componentCount; c++ {
		leadDays := 15 + cmd.rand.Intn(45)
		if cmd.rand.Intn(5) == 0 {
			leadDays = cmd.rand.Intn(14)
		}
		original := item.OriginalShipDate.AddDays(-leadDays)
		current := item.CurrentShipDate.AddDays(-leadDays + cmd.rand.Intn(7) - 3)

		po.Components = append(po.Components, &entities.Component{
			ID:               fmt.Sprintf("%s-C%d", po.ID, c+1),
			Name:             pick(cmd.rand, partNames),
			CatalogNumber:    fmt.Sprintf("CAT-%04d", cmd.rand.Intn(10000)),
			Quantity:         entities.Quantity(1 + cmd.rand.Intn(8)),
			Received:         cmd.rand.Float64() < cmd.config.ReceivedRatio,
			OriginalShipDate: original,
			CurrentShipDate:  current,
		})
	}

	return po
}

func pick(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}
