package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"roomclean/common"
	"roomclean/internal/analyzer"
	"roomclean/internal/utils"
)

// RoomAnalyzer 房间状态分析
type RoomAnalyzer interface {
	Analyze(ctx context.Context, imagePath, promptPath string) (analyzer.Result, error)
}

// Handler 本地指令服务：每次 GET / 执行一次房间分析并返回 JSON
type Handler struct {
	analyzer   RoomAnalyzer
	imagePath  string
	promptPath string
}

// NewHandler 创建指令服务处理器
func NewHandler(a RoomAnalyzer, imagePath, promptPath string) *Handler {
	return &Handler{
		analyzer:   a,
		imagePath:  imagePath,
		promptPath: promptPath,
	}
}

// Routes 注册路由
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/", h.HandleAnalyze)
	return mux
}

// HandleHealth 健康检查
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		common.WithError(err).Error("Unable to write health check response")
	}
}

// HandleAnalyze 分析房间并返回 JSON 结果
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), h.imagePath, h.promptPath)
	if err != nil {
		var decodeErr *analyzer.DecodeError
		if errors.As(err, &decodeErr) {
			common.WithError(err).WithField("raw", utils.TruncateForLog(decodeErr.Raw, 512)).Error("Model response is not valid JSON")
			http.Error(w, "Failed to parse JSON", http.StatusInternalServerError)
			return
		}
		common.WithError(err).Error("Room analysis failed")
		http.Error(w, "Failed to analyze room: "+err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := utils.MarshalPretty(result)
	if err != nil {
		http.Error(w, "Failed to encode JSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		common.WithError(err).Error("Unable to write analysis response")
	}
}

// ListenAndServe 启动服务，ctx 取消后优雅关闭
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	serverErr := make(chan error, 1)
	go func() {
		common.WithField("addr", addr).Info("Instruction service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		common.Info("Shutting down instruction service...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			common.WithError(err).Error("Server shutdown failed")
			return err
		}
		common.Info("Instruction service stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
