// Package backend はレビューの保存先（ローカル/リモート）を起動時に 1 度だけ決定する。
package backend

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	mongodoc "github.com/sngm3741/review-wall/api/internal/infrastructure/mongo"
	"github.com/sngm3741/review-wall/api/internal/public/application"
)

// Settings はリモートバックエンドの接続設定。
type Settings struct {
	Kind           string
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

// Selection は選択結果。Client はリモート選択時のみ非 nil。
type Selection struct {
	Backend  application.Backend
	Client   *mongo.Client
	Fallback error
}

var (
	errRemoteNotConfigured = errors.New("remote backend is not configured")
	errRemoteIncomplete    = errors.New("remote backend settings are incomplete")
)

// Select はリモート設定が使えればリモートを、そうでなければ local を返す。
// 設定不備や接続失敗はエラーにせず、warn ログを出してローカルへフォールバックする。
func Select(ctx context.Context, settings Settings, local application.Backend, logger *zap.Logger) Selection {
	if !strings.EqualFold(strings.TrimSpace(settings.Kind), mongodoc.Kind) {
		return Selection{Backend: local}
	}

	client, err := connect(ctx, settings)
	if err != nil {
		logger.Warn("リモートバックエンドを利用できないためローカルへフォールバックします",
			zap.String("backend", local.Kind()),
			zap.Error(err),
		)
		return Selection{Backend: local, Fallback: err}
	}

	repo := mongodoc.NewReviewRepository(client.Database(settings.Database), settings.Collection)
	logger.Info("リモートバックエンドに接続しました",
		zap.String("database", settings.Database),
		zap.String("collection", settings.Collection),
	)
	return Selection{Backend: repo, Client: client}
}

func connect(ctx context.Context, settings Settings) (*mongo.Client, error) {
	uri := strings.TrimSpace(settings.URI)
	if uri == "" {
		return nil, errRemoteNotConfigured
	}
	if strings.TrimSpace(settings.Database) == "" || strings.TrimSpace(settings.Collection) == "" {
		return nil, errRemoteIncomplete
	}

	clientOptions := options.Client().ApplyURI(uri).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	if err := clientOptions.Validate(); err != nil {
		return nil, err
	}

	timeout := settings.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancelDisconnect()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}
