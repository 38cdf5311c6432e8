package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	adminapp "github.com/sngm3741/review-wall/api/internal/admin/application"
	admindomain "github.com/sngm3741/review-wall/api/internal/admin/domain"
	"github.com/sngm3741/review-wall/api/internal/config"
	"github.com/sngm3741/review-wall/api/internal/infrastructure/backend"
	"github.com/sngm3741/review-wall/api/internal/infrastructure/local"
	"github.com/sngm3741/review-wall/api/internal/infrastructure/messenger"
	"github.com/sngm3741/review-wall/api/internal/infrastructure/sqlite"
	adminhttp "github.com/sngm3741/review-wall/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/review-wall/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/review-wall/api/internal/interfaces/http/public"
	publicapp "github.com/sngm3741/review-wall/api/internal/public/application"
	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger         *zap.Logger
	addr           string
	allowedOrigins []string
	db             *sql.DB
	client         *mongo.Client
	store          *publicapp.ReviewStore
	background     *commonhttp.Background
	router         http.Handler
}

// New は Config からストア・アプリケーションサービス・ハンドラを組み立てた Server を返す。
// リモートバックエンドが使えない場合もエラーにはせず、ローカルストアで起動する。
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	target, err := admindomain.NewPurgeTarget(cfg.PurgeTargetName, cfg.PurgeTargetText)
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(ctx, cfg.LocalStoreDSN)
	if err != nil {
		return nil, fmt.Errorf("ローカルストアを開けません: %w", err)
	}
	kv := sqlite.NewKVRepository(db)
	markers := local.NewMarkerRepository(kv)

	selection := backend.Select(ctx, backend.Settings{
		Kind:           cfg.Backend,
		URI:            cfg.MongoURI,
		Database:       cfg.MongoDatabase,
		Collection:     cfg.ReviewCollection,
		ConnectTimeout: cfg.MongoConnectTimeout,
	}, local.NewReviewBackend(kv), logger)

	store := publicapp.NewReviewStore(selection.Backend, markers)
	gate := publicapp.NewGate(store, markers,
		publicapp.WithMarkerFallback(domain.ParseMarkerFallback(cfg.MarkerFallback)),
	)
	adminFlag := commonhttp.AdminFlag{Param: cfg.AdminQueryParam, Value: cfg.AdminQueryValue}
	background := &commonhttp.Background{}

	publicCfg := publichttp.Config{
		Logger:     logger,
		Queries:    publicapp.NewReviewQueryService(store, gate),
		Gate:       gate,
		AdminFlag:  adminFlag,
		Background: background,
	}
	adminCfg := adminhttp.Config{
		Logger:     logger,
		Purge:      adminapp.NewPurgeService(store, target),
		AdminFlag:  adminFlag,
		Background: background,
	}
	if notifier := messenger.New(messenger.Config{
		Endpoint:    cfg.MessengerEndpoint,
		Destination: cfg.MessengerDestination,
		Timeout:     cfg.MessengerTimeout,
		RetryCount:  2,
	}); notifier != nil {
		publicCfg.Notifier = notifier
		adminCfg.Notifier = notifier
	}

	srv := &Server{
		logger:         logger,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		db:             db,
		client:         selection.Client,
		store:          store,
		background:     background,
	}

	tokens := commonhttp.NewDeviceTokens(cfg.DeviceTokenSecret, cfg.DeviceCookieSecure, logger)
	srv.router = srv.buildRouter(
		publichttp.NewHandler(publicCfg),
		adminhttp.NewHandler(adminCfg),
		tokens.Middleware,
	)

	logger.Info("レビューストアを初期化しました",
		zap.String("backend", store.Kind()),
		zap.String("markerFallback", domain.ParseMarkerFallback(cfg.MarkerFallback).String()),
		zap.Bool("notifications", publicCfg.Notifier != nil),
	)
	return srv, nil
}

// Router はミドルウェア込みのルータを返す。
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) buildRouter(public *publichttp.Handler, admin *adminhttp.Handler, deviceMiddleware func(http.Handler) http.Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	public.Register(router, deviceMiddleware)
	router.Route("/admin", admin.Register)
	return router
}

// Run はHTTPサーバーを起動し、シグナル受信まで待機する。
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP サーバー起動", zap.String("addr", s.addr))
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

// requestLogger は 1 リクエストごとにアクセスログを出力する。
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("requestId", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
// 端末 ID を Cookie で運ぶため credentials を許可する。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler はバックエンド種別とリモート接続状態を返す。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{
			"status":  "ok",
			"backend": s.store.Kind(),
			"time":    time.Now().Format(time.RFC3339),
		}

		if s.client != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
				payload["status"] = "degraded"
				payload["error"] = err.Error()
				commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, payload)
				return
			}
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, payload)
	}
}

// Close は送信中の通知を待ってから、MongoDB クライアントとローカルストアをタイムアウト付きで閉じる。
func (s *Server) Close(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if err := s.background.Wait(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("通知の完了待ちを打ち切りました: %w", err))
	}
	if s.client != nil {
		if err := s.client.Disconnect(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("MongoDB 切断時にエラー: %w", err))
		}
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("ローカルストアのクローズに失敗: %w", err))
	}
	return errors.Join(errs...)
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("サーバーが異常終了: %w", err)
		}
	case sig := <-sigChan:
		srv.logger.Info("シグナルを受信。サーバー停止処理を開始します。", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Warn("サーバー停止時にエラー", zap.Error(err))
		}
	}

	if err := srv.Close(context.Background()); err != nil {
		srv.logger.Warn("リソース解放時にエラー", zap.Error(err))
	}
	return runErr
}
