package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/Totarae/MultiLinkProxy/internal/auth"
	"github.com/Totarae/MultiLinkProxy/internal/config"
	"github.com/Totarae/MultiLinkProxy/internal/database"
	v2 "github.com/Totarae/MultiLinkProxy/internal/grpc/v2"
	"github.com/Totarae/MultiLinkProxy/internal/handlers"
	"github.com/Totarae/MultiLinkProxy/internal/notify"
	"github.com/Totarae/MultiLinkProxy/internal/repositories"
	"github.com/Totarae/MultiLinkProxy/internal/router"
	"github.com/Totarae/MultiLinkProxy/internal/service"
	"github.com/Totarae/MultiLinkProxy/internal/storage"
	"github.com/Totarae/MultiLinkProxy/internal/workspace"
)

const (
	shutdownTimeout = 5 * time.Second
	sweepInterval   = time.Minute
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Инициализация конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatal("Некорректная конфигурация", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, logger); err != nil {
		logger.Fatal("Ошибка при работе сервера", zap.Error(err))
	}
}

// run поднимает HTTP и gRPC серверы и очистку сессий, работает до отмены ctx.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, closeStore, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	center := notify.NewCenter(cfg.NotifyDuration, notify.DefaultFade, logger)
	defer center.Close()

	ws := workspace.NewStore(cfg.SessionTTL)
	svc := service.NewLinkProxyService(store, ws, center, logger, cfg.Mode)
	handler := handlers.NewHandler(svc, center, logger)

	httpServer := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router.NewRouter(handler, auth.New(cfg.SessionSecret), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(v2.LoggingInterceptor(logger)))
	v2.Register(grpcServer, v2.NewGRPCServer(logger))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP сервер запущен", zap.String("address", cfg.ServerAddress))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GRPCAddress)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		logger.Info("gRPC сервер запущен", zap.String("address", cfg.GRPCAddress))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				if n := ws.Sweep(now); n > 0 {
					logger.Info("expired sessions dropped", zap.Int("count", n))
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Остановка серверов")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newStorage выбирает хранилище настроек по режиму работы.
func newStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, func(), error) {
	switch cfg.Mode {
	case config.ModeDatabase:
		if err := database.Migrate(cfg.DatabaseDSN, cfg.PgMigrationsPath, logger); err != nil {
			return nil, nil, err
		}
		db, err := database.NewDB(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("preferences stored in database")
		return repositories.NewPreferenceRepository(db), db.Close, nil
	case config.ModeFile:
		store, err := storage.NewFileStore(cfg.FileStoragePath, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("preferences stored in file", zap.String("path", cfg.FileStoragePath))
		return store, func() {}, nil
	default:
		logger.Info("preferences stored in memory")
		return storage.NewMemoryStore(), func() {}, nil
	}
}
