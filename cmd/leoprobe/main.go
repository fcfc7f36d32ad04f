// Command leoprobe runs one enhance/generate cycle against the generation
// API from the shell. It exercises the same client the bot uses, so it is
// the quickest way to verify credentials, model ids and upload plumbing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"bot/internal/leonardo"
)

func main() {
	var (
		promptFlag    string
		referenceFlag string
		enhanceOnly   bool
		timeoutFlag   time.Duration
	)
	flag.StringVar(&promptFlag, "prompt", "", "image description to send upstream")
	flag.StringVar(&referenceFlag, "reference", "", "path to a local JPEG/PNG/WebP used as reference image")
	flag.BoolVar(&enhanceOnly, "enhance-only", false, "stop after prompt enhancement")
	flag.DurationVar(&timeoutFlag, "timeout", 2*time.Minute, "overall deadline for the probe")
	flag.Parse()

	_ = godotenv.Load()

	prompt := strings.TrimSpace(promptFlag)
	if prompt == "" {
		fmt.Fprintln(os.Stderr, "-prompt is required")
		os.Exit(1)
	}
	apiKey := strings.TrimSpace(os.Getenv("LEO_API_KEY"))
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "LEO_API_KEY is required")
		os.Exit(1)
	}

	client := leonardo.NewClient(leonardo.Options{
		APIKey:  apiKey,
		BaseURL: os.Getenv("LEO_BASE_URL"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeoutFlag)
	defer cancel()

	// Same order as the bot: enhance first, fall back to the raw prompt.
	active := prompt
	improved, err := client.ImprovePrompt(ctx, prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "enhance failed, continuing with the raw prompt: %v\n", err)
	} else {
		fmt.Printf("enhanced prompt: %s\n", improved)
		active = improved
	}
	if enhanceOnly {
		return
	}

	req := leonardo.GenerateRequest{Prompt: active}
	if referenceFlag != "" {
		ref, err := loadReference(referenceFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load reference: %v\n", err)
			os.Exit(1)
		}
		req.Reference = ref
	}

	img, err := client.Generate(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("generation id: %s\n", img.GenerationID)
	fmt.Printf("image url: %s\n", img.URL)
}

func loadReference(path string) (*leonardo.ReferenceImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	mime := "image/jpeg"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mime = "image/png"
	case ".webp":
		mime = "image/webp"
	}
	return &leonardo.ReferenceImage{Data: data, MIME: mime}, nil
}
