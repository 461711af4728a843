package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listing-marketplace/internal/auth"
	"listing-marketplace/internal/config"
	"listing-marketplace/internal/database"
	"listing-marketplace/internal/imagehost"
	listing "listing-marketplace/internal/listingService"
	"listing-marketplace/internal/repository"
	"listing-marketplace/internal/server"
	"listing-marketplace/internal/upload"
	uploadhandler "listing-marketplace/services/upload/handler"
	"listing-marketplace/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load configuration", map[string]any{"error": err.Error()})
	}
	utils.Configure(cfg.LogLevel, cfg.AppName)
	gin.SetMode(gin.ReleaseMode)

	if cfg.FluentBit.Enabled {
		fluentClient, err := utils.NewFluentClient(utils.FluentConfig{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
		})
		if err != nil {
			utils.Fatal("failed to create fluentbit client", map[string]any{"error": err.Error()})
		}
		defer fluentClient.Close()
		utils.AddFluentHook(fluentClient)
	}

	ctx := context.Background()
	conns := &connections{}
	defer conns.closeAll()

	repo, err := openStore(ctx, cfg, conns)
	if err != nil {
		utils.Fatal("failed to open listing store", map[string]any{"driver": cfg.StorageDriver, "error": err.Error()})
	}

	host, files, err := openImageHost(ctx, cfg, conns)
	if err != nil {
		utils.Fatal("failed to set up image host", map[string]any{"image_host": cfg.ImageHost, "error": err.Error()})
	}

	listingSvc := listing.NewListingService(repo)
	router := server.SetupRouter(server.Dependencies{
		Listings: listingSvc,
		Uploads:  upload.NewRelay(host, cfg.UploadFolder),
		Files:    files,
		Verifier: newVerifier(cfg),
		Store:    listingSvc,
	})

	srv := server.NewHTTPServer(":"+cfg.Port, router, cfg.CORSAllowedOrigins)
	run(srv, cfg)
}

// connections holds the process-wide clients so they are closed once on exit
type connections struct {
	mongo *mongo.Client
	close func()
}

func (c *connections) mongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	if c.mongo != nil {
		return c.mongo, nil
	}
	client, err := database.ConnectMongo(ctx, uri)
	if err != nil {
		return nil, err
	}
	c.mongo = client
	c.onClose(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(shutdownCtx); err != nil {
			utils.Warn("mongo disconnect failed", map[string]any{"error": err.Error()})
		}
	})
	return client, nil
}

func (c *connections) onClose(fn func()) {
	prev := c.close
	c.close = func() {
		fn()
		if prev != nil {
			prev()
		}
	}
}

func (c *connections) closeAll() {
	if c.close != nil {
		c.close()
	}
}

// openStore selects the listing backend from STORAGE_DRIVER
func openStore(ctx context.Context, cfg *config.Config, conns *connections) (repository.ListingDB, error) {
	switch cfg.StorageDriver {
	case config.StorageMongo:
		client, err := conns.mongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		repo := repository.NewMongoRepo(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		utils.Info("using mongo listing store", map[string]any{"database": cfg.MongoDatabase})
		return repo, nil

	case config.StoragePostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		conns.onClose(pool.Close)
		repo := repository.NewPostgresRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		utils.Info("using postgres listing store", nil)
		return repo, nil

	default:
		utils.Warn("using in-memory listing store, data is lost on restart", nil)
		return repository.NewMemoryRepo(), nil
	}
}

// openImageHost selects the image host from IMAGE_HOST. files is nil for remote hosts.
func openImageHost(ctx context.Context, cfg *config.Config, conns *connections) (imagehost.Host, uploadhandler.FileStore, error) {
	if cfg.ImageHost == config.ImageHostGridFS {
		client, err := conns.mongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		host := imagehost.NewGridFSHost(client.Database(cfg.MongoDatabase), cfg.PublicBaseURL)
		utils.Info("using gridfs image host", map[string]any{"public_base_url": cfg.PublicBaseURL})
		return host, host, nil
	}

	host := imagehost.NewCloudinaryHost(imagehost.CloudinaryConfig{
		BaseURL:   cfg.Cloudinary.BaseURL,
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
	}, nil)
	utils.Info("using cloudinary image host", map[string]any{"cloud_name": cfg.Cloudinary.CloudName})
	return host, nil, nil
}

func newVerifier(cfg *config.Config) auth.Verifier {
	if cfg.AuthMode == config.AuthRemote {
		return auth.NewRemoteVerifier(cfg.IdentityValidateURL, nil)
	}
	return auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
}

// run serves until SIGINT or SIGTERM, then drains for up to 10 seconds
func run(srv *http.Server, cfg *config.Config) {
	go func() {
		utils.Info("listing marketplace is listening", map[string]any{"port": cfg.Port, "app": cfg.AppName})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("failed to start server", map[string]any{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	utils.Info("shutting down", map[string]any{"signal": sig.String()})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Error("server shutdown failed", map[string]any{"error": err.Error()})
		return
	}
	utils.Info("server shut down gracefully", nil)
}
