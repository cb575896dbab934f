package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/dinein/broker"
	"github.com/yeremiapane/dinein/config"
	"github.com/yeremiapane/dinein/database"
	"github.com/yeremiapane/dinein/kds"
	"github.com/yeremiapane/dinein/repository"
	"github.com/yeremiapane/dinein/router"
	"github.com/yeremiapane/dinein/services"
	"github.com/yeremiapane/dinein/utils"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:           "dinein",
		Short:         "Dine-in table session and kitchen order service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional YAML config file")
	root.AddCommand(serveCmd(), migrateCmd(), tokenCmd())

	if err := root.Execute(); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and display websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	db, err := config.OpenDB(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := kds.NewHub()
	targets := services.Fanout{hub}
	if cfg.RabbitMQURL != "" {
		conn, err := broker.Dial(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		publisher, err := broker.NewPublisher(conn, cfg.NotifyExchange)
		if err != nil {
			conn.Close()
			return err
		}
		defer publisher.Close()
		targets = append(targets, publisher)
		utils.InfoLogger.WithField("exchange", cfg.NotifyExchange).Info("publishing notifications to RabbitMQ")
	}

	notifier := services.NewNotifier(targets, cfg.NotifyQueueSize, cfg.NotifyTimeout)
	notifier.Start()
	defer notifier.Stop()

	store := repository.NewStore(db)
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	guard := services.NewSessionGuard(store)
	otp := services.NewOtpAuthenticator(store, guard, tokens)
	otp.TTL = cfg.OtpTTL
	otp.MaxAttempts = cfg.OtpMaxAttempts

	r := router.SetupRouter(router.Deps{
		Tokens:         tokens,
		Guard:          guard,
		Sessions:       services.NewSessionManager(store),
		Otp:            otp,
		Ledger:         services.NewOrderLedger(store, guard, notifier),
		Machine:        services.NewOrderStateMachine(store, notifier),
		Catalog:        services.NewCatalog(store),
		Hub:            hub,
		CORSOrigin:     cfg.CORSOrigin,
		RateLimitRPS:   cfg.RateLimitRPS,
		OtpVerifyRPS:   cfg.OtpVerifyRPS,
		OtpVerifyBurst: cfg.OtpVerifyBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.Infof("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case sig := <-quit:
		utils.InfoLogger.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func migrateCmd() *cobra.Command {
	var (
		seed    bool
		sqlFile string
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := config.OpenDB(cfg.DBDriver, cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			if sqlFile != "" {
				if err := database.ExecuteSQLFile(db, sqlFile); err != nil {
					return err
				}
			}
			if seed {
				demo, err := database.Seed(db)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "branch:  %s\nkitchen: %s\ncaptain: %s\nadmin:   %s\ntables:  %v\n",
					demo.BranchID, demo.KitchenID, demo.CaptainID, demo.AdminID, demo.TableIDs)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert a demo branch, tables, staff and menu")
	cmd.Flags().StringVar(&sqlFile, "sql", "", "extra SQL file to execute after migrating")
	return cmd
}

// tokenCmd mints staff tokens for local use; production tokens come from the
// identity provider sharing JWT_SECRET.
func tokenCmd() *cobra.Command {
	var claims utils.Claims
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a staff bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			switch claims.Role {
			case utils.RoleKitchen, utils.RoleCaptain, utils.RoleStaff, utils.RoleAdmin:
			default:
				return fmt.Errorf("unknown staff role %q", claims.Role)
			}
			token, err := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL).Sign(claims)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&claims.Role, "role", utils.RoleCaptain, "KITCHEN, CAPTAIN, STAFF or ADMIN")
	cmd.Flags().StringVar(&claims.StaffID, "staff", "", "staff id")
	cmd.Flags().StringVar(&claims.BranchID, "branch", "", "branch id")
	return cmd
}
