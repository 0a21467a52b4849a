package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mattn/go-isatty"
	"gopkg.in/alecthomas/kingpin.v2"
	"skilllist/backend/config"
	"skilllist/backend/middleware"
	"skilllist/backend/routes"
	"skilllist/backend/storage"
	"skilllist/backend/utils"
)

var (
	envFile  = kingpin.Flag("env-file", "Path to a .env file").Default(".env").String()
	port     = kingpin.Flag("port", "Port to listen on (overrides SERVER_PORT)").String()
	dbDriver = kingpin.Flag("db-driver", "Storage driver: sqlite, postgres or memory (overrides DB_DRIVER)").Enum(config.DriverSQLite, config.DriverPostgres, config.DriverMemory)
	dbPath   = kingpin.Flag("db-path", "sqlite database file (overrides DB_PATH)").String()
)

func main() {
	kingpin.Version("0.1")
	kingpin.CommandLine.Help = "Skill List - track progress through learning courses"
	kingpin.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if *port != "" {
		cfg.ServerPort = *port
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{
		Format:       cfg.LogFormat,
		Level:        cfg.LogLevel,
		EnableColors: isatty.IsTerminal(os.Stdout.Fd()),
	})

	// Initialize storage
	var kv storage.KVStore
	if cfg.DBDriver == config.DriverMemory {
		kv = storage.NewMemoryStore()
	} else {
		db, err := utils.InitDB(cfg, logger)
		if err != nil {
			logger.Fatalf("Error initializing database: %v", err)
		}
		kv = storage.NewGormStore(db)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{AppName: "Skill List"})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	if err := routes.SetupRoutes(app, kv, cfg, logger); err != nil {
		logger.Fatalf("Error setting up routes: %v", err)
	}

	logger.WithField("driver", cfg.DBDriver).Infof("Server is running on port %s", cfg.ServerPort)
	logger.Fatal(app.Listen(":" + cfg.ServerPort))
}
