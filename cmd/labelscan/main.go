// labelscan runs the extraction pipeline once against a label image and
// prints the nine fields as JSON. Useful for trying prompts and models
// without the full application around it.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/c-trac/torquebench/internal/common"
	"github.com/c-trac/torquebench/internal/extraction"
	"github.com/c-trac/torquebench/internal/llm/openai"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: labelscan <image-path>")
		os.Exit(2)
	}
	imagePath := os.Args[1]

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	client := openai.NewClient(openai.Config{
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	service := extraction.NewService(client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result := service.Extract(ctx, imagePath)
	if result.Err != nil {
		logger.Error("extraction degraded", "error", result.Err)
	}

	out, err := json.MarshalIndent(result.Fields, "", "  ")
	if err != nil {
		logger.Error("encode fields", "error", err)
		os.Exit(1)
	}
	os.Stdout.Write(append(out, '\n'))
}
