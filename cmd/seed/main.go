package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sngm3741/review-wall/api/internal/config"
	"github.com/sngm3741/review-wall/api/internal/infrastructure/backend"
	"github.com/sngm3741/review-wall/api/internal/infrastructure/local"
	"github.com/sngm3741/review-wall/api/internal/infrastructure/sqlite"
	"github.com/sngm3741/review-wall/api/internal/logging"
	publicapp "github.com/sngm3741/review-wall/api/internal/public/application"
	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

type seedOptions struct {
	envName    string
	envDir     string
	count      int
	purgeRows  int
	drop       bool
	randomSeed uint64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample reviews into the configured review store",
		Long: `Generates sample reviews, including rows that match the admin purge
target, and writes them to the backend selected by REVIEW_BACKEND.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.count < 0 || opts.purgeRows < 0 {
				return fmt.Errorf("count と purge-rows は 0 以上を指定してください")
			}
			if opts.envName != "" {
				if err := loadEnvFiles(opts.envDir, opts.envName); err != nil {
					return fmt.Errorf("環境変数の読み込みに失敗しました: %w", err)
				}
			}
			return runSeed(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.envName, "env", "", "env ディレクトリ内の env ファイル名 (例: local, staging)")
	flags.StringVar(&opts.envDir, "env-dir", filepath.Join("..", "env"), "env ファイルを置いたディレクトリ")
	flags.IntVar(&opts.count, "count", 12, "生成する通常レビュー数")
	flags.IntVar(&opts.purgeRows, "purge-rows", 2, "管理者削除の対象となるサンプル行数")
	flags.BoolVar(&opts.drop, "drop", false, "既存レビューを削除してから投入する")
	flags.Uint64Var(&opts.randomSeed, "seed", uint64(time.Now().UnixNano()), "乱数シード（再現用）")
	return cmd
}

func runSeed(ctx context.Context, opts seedOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	db, err := sqlite.Open(ctx, cfg.LocalStoreDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	kv := sqlite.NewKVRepository(db)

	selection := backend.Select(ctx, backend.Settings{
		Kind:           cfg.Backend,
		URI:            cfg.MongoURI,
		Database:       cfg.MongoDatabase,
		Collection:     cfg.ReviewCollection,
		ConnectTimeout: cfg.MongoConnectTimeout,
	}, local.NewReviewBackend(kv), logger)
	if selection.Client != nil {
		defer func() { _ = selection.Client.Disconnect(context.Background()) }()
	}
	store := publicapp.NewReviewStore(selection.Backend, local.NewMarkerRepository(kv))

	reviews := generateReviews(opts.randomSeed, time.Now(), opts.count, opts.purgeRows, cfg.PurgeTargetName, cfg.PurgeTargetText)
	dropped, err := seedReviews(ctx, store, selection.Backend, reviews, opts.drop)
	if err != nil {
		return err
	}
	if opts.drop {
		logger.Info("既存レビューを削除しました", zap.Int("count", dropped))
	}

	logger.Info("Seed 完了",
		zap.String("backend", store.Kind()),
		zap.Int("reviews", len(reviews)),
		zap.Int("purgeTargets", opts.purgeRows),
		zap.Uint64("seed", opts.randomSeed),
	)
	return nil
}

// seedReviews は drop 指定時に既存レビューをマーカーごと削除し、サンプルをバックエンドへ直接書き込む。
// サンプル端末のマーカーは作らない。
func seedReviews(ctx context.Context, store *publicapp.ReviewStore, target publicapp.Backend, reviews []domain.Review, drop bool) (int, error) {
	dropped := 0
	if drop {
		n, err := store.RemoveWhere(ctx, func(domain.Review) bool { return true })
		if err != nil {
			return n, fmt.Errorf("既存レビューの削除に失敗しました: %w", err)
		}
		dropped = n
	}
	for _, review := range reviews {
		if err := target.Put(ctx, target.Key(review), review); err != nil {
			return dropped, fmt.Errorf("レビューの挿入に失敗しました: %w", err)
		}
	}
	return dropped, nil
}

func loadEnvFiles(dir, envName string) error {
	base := filepath.Clean(dir)
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := loadEnvFile(file); err != nil {
			return err
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%s の読み込みに失敗しました: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}
