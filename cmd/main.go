package main

import (
	"fmt"
	"os"

	"foodsafety-backend/cmd/config"
	migration "foodsafety-backend/cmd/database/migrate"
	"foodsafety-backend/internal/utils"
	"foodsafety-backend/internal/utils/logger"
	"foodsafety-backend/pkg/jwt"
	"foodsafety-backend/pkg/product"
	"foodsafety-backend/pkg/review"
	"foodsafety-backend/pkg/user"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	log *logger.Logger
	db  *gorm.DB

	rootCmd = &cobra.Command{
		Use:   "foodsafety",
		Short: "Food safety quality management backend",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			utils.LoadConfig()

			var err error
			log, err = logger.New(utils.GetConfigOr("APP_ENV", "development"))
			if err != nil {
				return err
			}

			db, err = config.ConnectDB()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Sync()
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migration.Migrate(db, log)
		},
	}

	recomputeTrustCmd = &cobra.Command{
		Use:   "recompute-trust",
		Short: "Recalculate the trust score of every user",
		RunE:  runRecomputeTrust,
	}

	recomputeMetricsCmd = &cobra.Command{
		Use:   "recompute-metrics",
		Short: "Rebuild product quality metrics from the stored reviews",
		RunE:  runRecomputeMetrics,
	}
)

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, recomputeTrustCmd, recomputeMetricsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	rdb, err := config.ConnectRedis(cmd.Context())
	if err != nil {
		log.Warn("analytics cache disabled", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	app, err := config.NewApp(db, rdb, log)
	if err != nil {
		return err
	}

	port := utils.GetConfigOr("APP_PORT", "8080")
	log.Info("starting server", "port", port)
	return app.Listen(":" + port)
}

func runRecomputeTrust(cmd *cobra.Command, args []string) error {
	userService := user.NewUserService(
		user.NewUserRepository(db),
		jwt.NewJWTService(utils.GetConfig("JWT_SECRET")),
		log,
	)

	n, err := userService.RecomputeAllTrustScores(cmd.Context())
	if err != nil {
		return err
	}
	log.Info("trust scores recomputed", "users", n)
	return nil
}

func runRecomputeMetrics(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	productRepository := product.NewProductRepository(db)
	reviewService := review.NewReviewService(review.NewReviewRepository(db), user.NewUserRepository(db), log)

	ids, err := productRepository.ListProductIDs(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, id := range ids {
		if _, err := reviewService.RecomputeQualityMetrics(ctx, id); err != nil {
			failed++
			log.Error("quality metrics recompute failed", "product_id", id, "error", err)
		}
	}
	log.Info("quality metrics recomputed", "products", len(ids)-failed, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d products failed", failed, len(ids))
	}
	return nil
}
