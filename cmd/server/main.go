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

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"carepoint/backend/config"
	"carepoint/backend/internal/api/handler"
	"carepoint/backend/internal/api/router"
	"carepoint/backend/internal/authz"
	"carepoint/backend/internal/dto"
	"carepoint/backend/internal/model"
	"carepoint/backend/internal/repository"
	"carepoint/backend/internal/service"
	"carepoint/backend/pkg/database"
	"carepoint/backend/pkg/jwt"
	applogger "carepoint/backend/pkg/logger"
	"carepoint/backend/pkg/redis"
	"carepoint/backend/pkg/storage"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "carepoint",
		Short: "CarePoint 医院工作流门户",
		// 不带子命令时直接启动服务
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认查找 ./config/config.yaml）")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap 加载配置并初始化日志
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, logger, nil
}

// openDB 连接数据库并执行迁移
func openDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
}

// ────────────────────── serve ──────────────────────

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	db, err := openDB(cfg, logger)
	if err != nil {
		logger.Error("数据库初始化失败", zap.Error(err))
		return err
	}
	defer closeDB(db)

	// Redis 可选：连接失败时降级运行，登出仅清除 Cookie、登录不限流
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，会话黑名单与登录限流将不可用", zap.Error(err))
		rdb = nil
	}
	var blacklist service.SessionBlacklist
	if rdb != nil {
		blacklist = rdb
		defer rdb.Close()
	}

	store, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		logger.Error("附件目录初始化失败", zap.String("dir", cfg.Upload.Dir), zap.Error(err))
		return err
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, jwtMgr, blacklist, store, logger)
	h := handler.NewHandler(svc, cfg, store)

	engine := router.Setup(cfg, h, svc.Auth, rdb, db, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("HTTP 服务器异常", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务器已关闭")
	return nil
}

// ────────────────────── migrate ──────────────────────

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "数据库迁移",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "执行全部未应用的迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			closeDB(db)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "查看当前迁移版本",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
			if err != nil {
				return err
			}
			defer closeDB(db)

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			status, err := database.GetMigrationStatus(sqlDB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", status.Version, status.Dirty)
			return nil
		},
	})

	return cmd
}

// ────────────────────── create-admin ──────────────────────

func createAdminCmd() *cobra.Command {
	var username, password, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "创建初始管理员账号",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if username == "" {
				username = cfg.Seed.AdminUsername
			}
			if password == "" {
				password = cfg.Seed.AdminPassword
			}
			if name == "" {
				name = cfg.Seed.AdminName
			}
			if password == "" {
				return errors.New("管理员密码不能为空，请通过 --password 或 seed.admin_password 提供")
			}

			db, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			defer closeDB(db)

			directory := service.NewDirectoryService(repository.NewRepository(db), logger)
			bootstrapper := authz.Principal{Kind: authz.KindStaff, Role: model.RoleAdmin, Username: "bootstrap"}

			staff, err := directory.CreateStaff(cmd.Context(), bootstrapper, &dto.CreateStaffRequest{
				Name:        name,
				Role:        model.RoleAdmin,
				Username:    username,
				Password:    password,
				IsAvailable: "true",
			})
			if err != nil {
				if errors.Is(err, service.ErrUsernameExists) {
					fmt.Fprintf(cmd.OutOrStdout(), "管理员 %s 已存在，跳过\n", username)
					return nil
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "管理员已创建: id=%d username=%s\n", staff.ID, staff.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "管理员用户名（默认 seed.admin_username）")
	cmd.Flags().StringVar(&password, "password", "", "管理员密码（默认 seed.admin_password）")
	cmd.Flags().StringVar(&name, "name", "", "管理员姓名（默认 seed.admin_name）")
	return cmd
}
