// Package app is the composition root. It owns the shared infrastructure
// (database, Redis, file storage, outbound providers) and wires every module
// on top of it. Both the API server and nccctl build one Container.
package app

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/nccerp/pkg/config"
	"github.com/Abraxas-365/nccerp/pkg/dbx"
	"github.com/Abraxas-365/nccerp/pkg/fsx"
	"github.com/Abraxas-365/nccerp/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/nccerp/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/nccerp/pkg/jobx"
	"github.com/Abraxas-365/nccerp/pkg/jobx/jobxredis"
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds shared infrastructure and the composed modules.
type Container struct {
	Config *config.Config

	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	Jobs       *jobx.Client

	Modules
}

// New connects the infrastructure and wires every module. The caller owns
// the result and must call Cleanup.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}
	if err := c.initInfrastructure(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}
	if err := c.initModules(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	logx.Info("✅ Application container initialized")
	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	logx.Info("🏗️ Initializing infrastructure...")

	db, err := OpenDB(ctx, c.Config.Database)
	if err != nil {
		return err
	}
	c.DB = db
	logx.Info("  ✅ Database connected")

	if c.Config.Database.AutoMigrate {
		if err := Migrate(ctx, c.DB); err != nil {
			return err
		}
	}

	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w (Redis is required)", err)
	}
	logx.Info("  ✅ Redis connected")

	if err := c.initFileStorage(ctx); err != nil {
		return err
	}

	jc := c.Config.Jobx
	c.Jobs = jobx.NewClient(jobxredis.New(c.Redis),
		jobx.WithQueues(jc.Queues...),
		jobx.WithConcurrency(jc.Concurrency),
		jobx.WithPollInterval(jc.PollInterval),
		jobx.WithShutdownTimeout(jc.ShutdownTimeout),
		jobx.WithDequeueTimeout(jc.DequeueTimeout),
		jobx.WithDefaultRetryDelay(jc.DefaultRetryDelay),
		jobx.WithDefaultMaxRetries(jc.MaxRetries),
	)
	logx.Infof("  ✅ Job queue configured (queues: %v)", jc.Queues)

	logx.Info("✅ Infrastructure initialized")
	return nil
}

// OpenDB connects to Postgres with the configured pool limits
func OpenDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// Migrate applies the embedded schema migrations
func Migrate(ctx context.Context, db *sqlx.DB) error {
	applied, err := dbx.Migrate(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	for _, name := range applied {
		logx.Infof("  ✅ Applied migration %s", name)
	}
	return nil
}

func (c *Container) initFileStorage(ctx context.Context) error {
	sc := c.Config.Storage
	switch sc.Mode {
	case "s3":
		awsCfg, err := c.awsConfig(ctx, sc.Region)
		if err != nil {
			return err
		}
		c.FileSystem = fsxs3.NewS3FileSystem(s3.NewFromConfig(awsCfg), sc.Bucket, sc.Prefix)
		logx.Infof("  ✅ S3 file system configured (bucket: %s, region: %s)", sc.Bucket, sc.Region)
	default:
		localFS, err := fsxlocal.NewLocalFileSystem(sc.UploadDir)
		if err != nil {
			return fmt.Errorf("failed to initialize local file system: %w", err)
		}
		c.FileSystem = localFS
		logx.Infof("  ✅ Local file system configured (path: %s)", localFS.GetBasePath())
	}
	return nil
}

func (c *Container) awsConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return cfg, nil
}

// StartBackgroundServices runs the job workers until ctx is cancelled
func (c *Container) StartBackgroundServices(ctx context.Context) error {
	logx.Info("🔄 Starting background services...")
	return c.Jobs.Start(ctx)
}

// Cleanup closes whatever New managed to open
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("  ✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("  ✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}
