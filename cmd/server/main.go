package main

import (
	"flag"
	"net/http"

	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/api"
	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/chat"
	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/config"
	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/extract"
	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/llm"
	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/store"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "chatbot.toml", "path to the TOML config file")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config",
			zap.Error(err),
			zap.String("configPath", *configPath))
	}

	// Initialize model service client
	modelClient, err := llm.New(
		cfg.Model.BaseURL,
		cfg.Model.APIKey,
		cfg.Model.Name,
		cfg.ModelTimeout(),
		logger,
	)
	if err != nil {
		logger.Fatal("failed to initialize model client", zap.Error(err))
	}

	// Initialize session store, extractor, and turn assembler
	sessions := store.NewManager()
	extractor := extract.New(cfg.Extract.OCRLanguages, cfg.Extract.MaxAttachmentBytes)
	assembler := chat.NewAssembler(modelClient, extractor, logger)

	// Set up routes
	handler := api.NewHandler(sessions, assembler, cfg.Extract.MaxAttachmentBytes, logger)
	mux := http.NewServeMux()
	handler.Register(mux)

	// Serve the single-page UI
	mux.Handle("/", http.FileServer(http.Dir(cfg.Server.WebDir)))

	// Start server
	logger.Info("Starting server",
		zap.String("addr", cfg.Server.ListenAddr),
		zap.String("model", cfg.Model.Name),
		zap.String("modelURL", cfg.Model.BaseURL))
	if err := http.ListenAndServe(cfg.Server.ListenAddr, mux); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
