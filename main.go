package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/redis/v3"
	"github.com/khanghh/photoshare/internal/assets"
	"github.com/khanghh/photoshare/internal/audit"
	"github.com/khanghh/photoshare/internal/auth"
	"github.com/khanghh/photoshare/internal/comments"
	"github.com/khanghh/photoshare/internal/common"
	"github.com/khanghh/photoshare/internal/config"
	"github.com/khanghh/photoshare/internal/events"
	"github.com/khanghh/photoshare/internal/handlers/api"
	"github.com/khanghh/photoshare/internal/images"
	"github.com/khanghh/photoshare/internal/middlewares"
	"github.com/khanghh/photoshare/internal/ratings"
	"github.com/khanghh/photoshare/internal/store"
	"github.com/khanghh/photoshare/internal/tags"
	"github.com/khanghh/photoshare/internal/users"
	"github.com/khanghh/photoshare/model"
	"github.com/khanghh/photoshare/params"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
	gitTag    string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
	secretLengthFlag = &cli.IntFlag{
		Name:  "length",
		Usage: "Length of the generated secret",
		Value: 64,
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "photoshare - A photo sharing API server"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
		{
			Name:   "migrate",
			Usage:  "Create or update the database schema and exit",
			Action: migrate,
		},
		{
			Name:  "gen-secret",
			Usage: "Print a random secret suitable for token.secretKey",
			Flags: []cli.Flag{secretLengthFlag},
			Action: func(ctx *cli.Context) error {
				secret, err := common.GenerateSecret(ctx.Int(secretLengthFlag.Name))
				if err != nil {
					return err
				}
				fmt.Println(secret)
				return nil
			},
		},
	}
	app.Action = run
}

// revocationStorage is the key/value backend of the token denylist.
type revocationStorage interface {
	store.Storage
	Ping(ctx context.Context) error
}

func mustInitLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func openDialector(driver, dsn string) gorm.Dialector {
	switch driver {
	case "mysql":
		return mysql.Open(dsn)
	case "postgres":
		return postgres.Open(dsn)
	default:
		return sqlite.Open(dsn)
	}
}

func openDatabase(dbConfig config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(openDialector(dbConfig.Driver, dbConfig.Dsn), model.GormConfig(dbConfig.TablePrefix))
	if err != nil {
		return nil, err
	}

	if len(dbConfig.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(dbConfig.Replicas))
		for _, dsn := range dbConfig.Replicas {
			replicas = append(replicas, openDialector(dbConfig.Driver, dsn))
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})
		if err := db.Use(resolver); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dbConfig.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	}
	if dbConfig.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
	}
	if dbConfig.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(dbConfig.ConnMaxIdleTime)
	}
	if dbConfig.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)
	}
	return db, nil
}

func mustInitDatabase(dbConfig config.DatabaseConfig) *gorm.DB {
	db, err := openDatabase(dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "driver", dbConfig.Driver, "error", err)
		os.Exit(1)
	}

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	return db
}

func mustInitRevocationStorage(redisCfg config.RedisConfig) revocationStorage {
	if redisCfg.URL == "" {
		slog.Warn("Redis is not configured, revoked tokens are kept in memory")
		return store.NewFiberStorage(memory.New())
	}
	redisStorage := redis.New(redis.Config{
		URL:           redisCfg.URL,
		PoolSize:      redisCfg.PoolSize,
		IsClusterMode: redisCfg.ClusterMode,
	})
	return store.NewRedisStorage(redisStorage.Conn())
}

func mustInitEventPublisher(kafkaCfg config.KafkaConfig) events.Publisher {
	if len(kafkaCfg.Brokers) == 0 {
		return events.NullPublisher{}
	}
	slog.Info("Publishing domain events", "brokers", kafkaCfg.Brokers, "topic", kafkaCfg.Topic)
	return events.NewKafkaPublisher(kafkaCfg.Brokers, kafkaCfg.Topic)
}

func mustInitAssetProvider(storageCfg config.StorageConfig) *assets.LocalProvider {
	provider, err := assets.NewLocalProvider(storageCfg.UploadDir, storageCfg.PublicPath)
	if err != nil {
		slog.Error("Failed to initialize upload directory", "dir", storageCfg.UploadDir, "error", err)
		os.Exit(1)
	}
	return provider
}

func migrate(ctx *cli.Context) error {
	config, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		return err
	}
	mustInitLogger(config.Debug || ctx.IsSet(debugFlag.Name))

	db, err := openDatabase(config.Database)
	if err != nil {
		return err
	}
	if err := model.AutoMigrate(db); err != nil {
		return err
	}
	slog.Info("Database schema is up to date", "driver", config.Database.Driver)
	return nil
}

func run(ctx *cli.Context) error {
	config, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return err
	}

	mustInitLogger(config.Debug || ctx.IsSet(debugFlag.Name))

	db := mustInitDatabase(config.Database)
	storage := mustInitRevocationStorage(config.Redis)
	publisher := mustInitEventPublisher(config.Kafka)
	defer publisher.Close()
	assetProvider := mustInitAssetProvider(config.Storage)
	hasher := common.NewPasswordHasher(config.BcryptCost)

	// repositories
	var (
		userRepo    = users.NewUserRepository(db)
		tagRepo     = tags.NewTagRepository(db)
		imageRepo   = images.NewImageRepository(db)
		commentRepo = comments.NewCommentRepository(db)
		ratingRepo  = ratings.NewRatingRepository(db)
		auditRepo   = audit.NewAuditEventRepository(db)
	)

	// services
	var (
		userService    = users.NewUserService(db, userRepo, hasher)
		tagService     = tags.NewTagService(tagRepo)
		imageService   = images.NewImageService(db, imageRepo, tagService, assetProvider)
		commentService = comments.NewCommentService(commentRepo, imageService)
		ratingService  = ratings.NewRatingService(ratingRepo, imageService)
		recorder       = audit.NewRecorder(auditRepo)
	)
	tokenService, err := auth.NewTokenService(auth.TokenConfig{
		SecretKey:       config.Token.SecretKey,
		Algorithm:       config.Token.Algorithm,
		AccessTokenTTL:  config.Token.AccessTTL,
		RefreshTokenTTL: config.Token.RefreshTTL,
	}, userService, storage)
	if err != nil {
		return err
	}
	authService := auth.NewAuthService(tokenService, userService, hasher)

	router := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		BodyLimit:     params.ServerBodyLimit,
		IdleTimeout:   params.ServerIdleTimeout,
		ReadTimeout:   params.ServerReadTimeout,
		WriteTimeout:  params.ServerWriteTimeout,
		ErrorHandler:  api.ErrorHandler,
	})

	router.Use(recover.New())
	router.Use(logger.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(config.AllowOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	router.Use(middlewares.Metrics())

	router.Static(config.Storage.PublicPath, config.Storage.UploadDir)
	router.Static("/static", config.StaticDir)
	api.SetupRoutes(router.Group("/api"), tokenService, api.Handlers{
		Auth:     api.NewAuthHandler(authService, userService, recorder, publisher),
		Users:    api.NewUserHandler(userService, imageService, recorder),
		Images:   api.NewImageHandler(imageService, publisher),
		Tags:     api.NewTagHandler(tagService),
		Comments: api.NewCommentHandler(commentService),
		Ratings:  api.NewRatingHandler(ratingService, publisher),
	})

	healthCheckCtx, term := context.WithCancel(ctx.Context)
	done := make(chan struct{})
	go common.StartHealthCheckServer(healthCheckCtx, done, params.HealthCheckServerAddr, db, storage)
	defer func() {
		term()
		<-done
	}()
	slog.Info("Starting photoshare", "version", params.VersionWithCommit(gitCommit, gitDate), "listen", config.ListenAddr)
	return router.Listen(config.ListenAddr)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
