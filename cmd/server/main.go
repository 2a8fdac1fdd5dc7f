package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/electricblue/paxum-gateway/internal/api"
	"github.com/electricblue/paxum-gateway/internal/config"
	"github.com/electricblue/paxum-gateway/internal/domain"
	"github.com/electricblue/paxum-gateway/internal/ipn"
	"github.com/electricblue/paxum-gateway/internal/ipnlog"
	"github.com/electricblue/paxum-gateway/internal/reconcile"
	"github.com/electricblue/paxum-gateway/internal/refund"
	"github.com/electricblue/paxum-gateway/internal/repository"
)

func main() {
	// A missing .env is fine; the environment may be set directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("Initializing database at %s", cfg.DBPath)
	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.Close()

	// Create repositories.
	orderRepo := repository.NewOrderRepo(db)
	notifRepo := repository.NewNotificationRepo(db)
	refundRepo := repository.NewRefundRepo(db)

	// Create services.
	reconcileSvc := reconcile.NewService(orderRepo)
	logWriter := ipnlog.New(cfg.IPNLogPath, cfg.IPNLogRetention)
	ipnSvc := ipn.NewService(cfg, reconcileSvc, logWriter, notifRepo)
	refundClient := refund.NewClient(cfg)

	// Seed orders if DB is empty.
	count, err := orderRepo.Count()
	if err != nil {
		log.Fatalf("Failed to count orders: %v", err)
	}
	if count == 0 {
		log.Println("Database is empty, seeding orders from testdata...")
		if err := seedOrders(orderRepo); err != nil {
			log.Printf("WARNING: Failed to seed orders: %v", err)
		}
	} else {
		log.Printf("Database already has %d orders, skipping seed", count)
	}

	// Create router.
	router := api.NewRouter(cfg, orderRepo, notifRepo, refundRepo, ipnSvc, refundClient)

	log.Printf("Paxum Payment Gateway")
	log.Printf("Listening on http://localhost:%s", cfg.Port)
	log.Printf("IPN log: %s (retention %d)", cfg.IPNLogPath, cfg.IPNLogRetention)
	if cfg.Sandbox {
		log.Printf("Sandbox mode is ON")
	}
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  ANY    /ipn")
	log.Printf("  GET    /pay/relay")
	log.Printf("  POST   /api/v1/orders/{id}/pay")
	log.Printf("  POST   /api/v1/orders/{id}/refund")
	log.Printf("  GET    /api/v1/orders/{id}")
	log.Printf("  GET    /api/v1/notifications")
	log.Printf("  GET    /health")
	log.Printf("  GET    /metrics")

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func seedOrders(repo *repository.OrderRepo) error {
	// Try multiple possible locations for testdata.
	candidates := []string{
		"testdata/orders.json",
		filepath.Join(".", "testdata", "orders.json"),
	}

	// Also try to find relative to the executable.
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "testdata", "orders.json"),
			filepath.Join(dir, "..", "..", "testdata", "orders.json"),
		)
	}

	var data []byte
	var loadErr error
	for _, path := range candidates {
		data, loadErr = os.ReadFile(path)
		if loadErr == nil {
			log.Printf("Loaded orders from %s", path)
			break
		}
	}
	if loadErr != nil {
		return fmt.Errorf("could not find orders.json in any candidate path: %w", loadErr)
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return fmt.Errorf("unmarshal orders: %w", err)
	}

	inserted, err := repo.BulkInsert(orders)
	if err != nil {
		return fmt.Errorf("bulk insert: %w", err)
	}

	log.Printf("Seeded %d orders (out of %d in file)", inserted, len(orders))
	return nil
}
