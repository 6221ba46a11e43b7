package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/issouf7507-dev/codeqr-sub001/internal/app"
	"github.com/issouf7507-dev/codeqr-sub001/internal/qr"
	"github.com/issouf7507-dev/codeqr-sub001/internal/service"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		cmd := flag.NewFlagSet("generate", flag.ExitOnError)
		month := cmd.Int("month", int(time.Now().Month()), "batch month (1-12)")
		year := cmd.Int("year", time.Now().Year(), "batch year")
		count := cmd.Int("count", 0, "number of codes to generate")
		outDir := cmd.String("out", "", "optional directory for print-ready PNG files")
		cmd.Parse(os.Args[2:])
		if *count <= 0 {
			fmt.Println("count is required")
			cmd.PrintDefaults()
			os.Exit(1)
		}
		generate(*month, *year, *count, *outDir)
	case "health":
		health()
	case "add-admin":
		cmd := flag.NewFlagSet("add-admin", flag.ExitOnError)
		username := cmd.String("username", "", "admin username")
		password := cmd.String("password", "", "admin password")
		first := cmd.String("first", "", "first name")
		last := cmd.String("last", "", "last name")
		cmd.Parse(os.Args[2:])
		if *username == "" || *password == "" {
			fmt.Println("username and password are required")
			cmd.PrintDefaults()
			os.Exit(1)
		}
		addAdmin(*username, *password, *first, *last)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("expected 'generate', 'health' or 'add-admin' subcommand")
}

func openDB(cfg app.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	// tables may not exist yet if the CLI runs before the server
	if err := app.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	return db
}

func generate(month, year, count int, outDir string) {
	cfg := app.LoadConfig()
	db := openDB(cfg)
	inventory := service.NewInventoryService(db, cfg.PublicBaseURL, cfg.InventoryThreshold)

	codes, err := inventory.GenerateBatch(month, year, count)
	if err != nil {
		log.Fatalf("generate batch: %v", err)
	}
	fmt.Printf("Generated %d codes for batch %02d/%d.\n", len(codes), month, year)

	if outDir == "" {
		return
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}
	for _, c := range codes {
		png, err := qr.RenderPNG(qr.ActivationURL(cfg.PublicBaseURL, c.Code), 600)
		if err != nil {
			log.Fatalf("render %s: %v", c.Code, err)
		}
		path := filepath.Join(outDir, c.Code+".png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			log.Fatalf("write %s: %v", path, err)
		}
	}
	fmt.Printf("Wrote %d PNG files to %s.\n", len(codes), outDir)
}

func health() {
	cfg := app.LoadConfig()
	db := openDB(cfg)
	inventory := service.NewInventoryService(db, cfg.PublicBaseURL, cfg.InventoryThreshold)

	h, err := inventory.Health()
	if err != nil {
		log.Fatalf("inventory health: %v", err)
	}
	fmt.Printf("available: %d\nassigned:  %d\nactivated: %d\ntotal:     %d\n",
		h.Available, h.Assigned, h.Activated, h.Total)
	if h.NeedsMore {
		fmt.Printf("WARNING: available codes below threshold (%d) — generate a new batch\n", h.Threshold)
	}
}

func addAdmin(username, password, first, last string) {
	cfg := app.LoadConfig()
	db := openDB(cfg)
	admin := service.NewAdminService(db, service.NewInventoryService(db, cfg.PublicBaseURL, cfg.InventoryThreshold))

	a, err := admin.CreateAdmin(username, password, first, last)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	fmt.Printf("Admin '%s' (id %d) created successfully.\n", a.Username, a.ID)
}
