package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Brightboard-Labs/brightboard/backend/api"
	"github.com/Brightboard-Labs/brightboard/backend/config"
	"github.com/Brightboard-Labs/brightboard/backend/database"
	"github.com/Brightboard-Labs/brightboard/backend/jobs"
	"github.com/Brightboard-Labs/brightboard/backend/realtime"
	"github.com/Brightboard-Labs/brightboard/backend/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the collaboration API, the realtime hub and the reminder job",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			fmt.Println(".env file not found, using environment variables")
		}

		c := config.New()

		db, err := openDatabase(c)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		currentDB := database.New(db)
		defer currentDB.Close()

		secret := config.GetString(c, "JWT_SECRET", "")
		if secret == "" {
			return fmt.Errorf("JWT_SECRET must be set")
		}
		tokenTTL := config.GetDuration(c, "TOKEN_TTL", 7*24*time.Hour)

		membership := services.NewMembership(currentDB)
		authService := services.NewAuthService(currentDB, secret, tokenTTL)
		projectService := services.NewProjectService(currentDB, membership)
		taskService := services.NewTaskService(currentDB, membership)
		dashboardService := services.NewDashboardService(currentDB)

		hub := realtime.NewHub()
		var broadcaster realtime.Broadcaster = hub

		relayCtx, stopRelay := context.WithCancel(context.Background())
		defer stopRelay()

		if redisAddr := config.GetString(c, "REDIS_ADDR", ""); redisAddr != "" {
			channel := config.GetString(c, "REDIS_EVENT_CHANNEL", "brightboard:events")
			relay, err := realtime.NewRedisRelay(redisAddr, channel, hub)
			if err != nil {
				return fmt.Errorf("connecting to redis: %w", err)
			}
			defer relay.Close()
			go func() {
				if err := relay.Run(relayCtx); err != nil {
					fmt.Printf("redis relay stopped: %v\n", err)
				}
			}()
			broadcaster = relay
		}

		reminders := jobs.NewReminderJob(currentDB, broadcaster, config.GetString(c, "REMINDER_SCHEDULE", ""))
		if err := reminders.Start(); err != nil {
			return fmt.Errorf("starting reminder job: %w", err)
		}
		defer reminders.Stop()

		server, err := api.NewServer(api.Dependencies{
			Auth:        authService,
			Projects:    projectService,
			Tasks:       taskService,
			Dashboard:   dashboardService,
			Membership:  membership,
			Hub:         hub,
			Broadcaster: broadcaster,
		})
		if err != nil {
			return fmt.Errorf("initializing server: %w", err)
		}

		errChannel := make(chan error)
		go server.Start(errChannel)
		go listenToInterrupt(errChannel)

		fatalErr := <-errChannel
		fmt.Printf("Closing server: %v\n", fatalErr)

		server.ShutdownGracefully(30 * time.Second)
		return nil
	},
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

func openDatabase(c map[string]string) (*gorm.DB, error) {
	dsn := config.GetString(c, "DATABASE_DSN", "")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_USER", "postgres"),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_NAME", "brightboard"),
			config.GetString(c, "DB_PORT", "5432"),
			config.GetString(c, "DB_SSLMODE", "disable"),
		)
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	return database.Connect(dsn, config.GetString(c, "DB_REPLICA_DSN", ""), &gorm.Config{
		Logger: gormLogger,
	})
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
