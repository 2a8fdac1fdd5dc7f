package main

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/electricblue/paxum-gateway/internal/domain"
)

func main() {
	rng := rand.New(rand.NewSource(42))
	baseDir := findTestdataDir()

	// Date range: 2024-02-01 to 2024-02-14.
	startDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)
	dayRange := int(endDate.Sub(startDate).Hours() / 24)

	items := []string{
		"Annual membership", "Digital download bundle", "Photo print pack",
		"Gift card", "Premium upgrade", "Order item(s)",
	}

	var orders []domain.Order

	for i := 1; i <= 120; i++ {
		day := rng.Intn(dayRange)
		hour := rng.Intn(24)
		minute := rng.Intn(60)
		createdAt := startDate.AddDate(0, 0, day).Add(
			time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute,
		)

		// USD total between 5 and 500.
		total := 5 + rng.Float64()*495
		total = math.Round(total*100) / 100

		// Status distribution: 70% pending, 25% completed, 5% cancelled.
		status := domain.StatusPending
		var txnID string
		var paidAt *time.Time
		roll := rng.Float64()
		switch {
		case roll < 0.70:
			// stays pending
		case roll < 0.95:
			status = domain.StatusCompleted
			txnID = fmt.Sprintf("PXM-%08d", rng.Intn(100000000))
			t := createdAt.Add(time.Duration(rng.Intn(120)+1) * time.Minute)
			paidAt = &t
		default:
			status = domain.StatusCancelled
		}

		orders = append(orders, domain.Order{
			ID:            fmt.Sprintf("ORD-%04d", i),
			ItemName:      items[rng.Intn(len(items))],
			Total:         total,
			Currency:      "USD",
			Status:        status,
			TransactionID: txnID,
			CreatedAt:     createdAt,
			PaidAt:        paidAt,
		})
	}

	writeJSONFile(filepath.Join(baseDir, "orders.json"), orders)
	fmt.Printf("Generated %d orders -> orders.json\n", len(orders))
}

func writeJSONFile(path string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal %s: %v\n", path, err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(1)
	}
}

func findTestdataDir() string {
	candidates := []string{"testdata", filepath.Join("..", "..", "testdata"), "."}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	return "."
}
