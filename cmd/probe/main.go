package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"asistentas-gateway/internal/config"
	"asistentas-gateway/internal/constant"
	"asistentas-gateway/pkg/backend"

	"github.com/fatih/color"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

type step struct {
	name     string
	required bool
	run      func(ctx context.Context) (interface{}, error)
}

func main() {
	cfg := config.Load()

	baseURL := flag.String("backend", cfg.Backend.BaseURL, "backend base URL")
	model := flag.String("model", cfg.Chat.ModelName, "model used for the test message")
	city := flag.String("city", "", "city filter for recent projects")
	verbose := flag.Bool("v", false, "print response bodies")
	flag.Parse()

	client := backend.NewHTTPClient(*baseURL, cfg.Backend.MetadataTimeout, cfg.Backend.QueryTimeout)

	color.Cyan("🚀 Testing connection to %s\n", *baseURL)

	steps := []step{
		{"Health", false, func(ctx context.Context) (interface{}, error) {
			return client.Health(ctx)
		}},
		{"Models", false, func(ctx context.Context) (interface{}, error) {
			return client.Models(ctx)
		}},
		{"Cities", false, func(ctx context.Context) (interface{}, error) {
			return client.Cities(ctx)
		}},
		{"Recent projects", false, func(ctx context.Context) (interface{}, error) {
			return client.RecentProjects(ctx, *city)
		}},
		{"Chat", true, func(ctx context.Context) (interface{}, error) {
			return client.Chat(ctx, backend.ChatRequest{Message: constant.ProbeMessage, ModelName: *model})
		}},
	}

	failed := false
	for i, s := range steps {
		color.Yellow("\n%d. %s", i+1, s.name)
		started := time.Now()
		res, err := s.run(context.Background())
		elapsed := time.Since(started).Round(time.Millisecond)

		if err != nil {
			if apiErr, ok := backend.AsAPIError(err); ok {
				color.Red("Failed (%s): status %d: %s", elapsed, apiErr.StatusCode, apiErr.Detail)
			} else {
				color.Red("Failed (%s): %v", elapsed, err)
			}
			if s.required {
				failed = true
			}
			continue
		}

		color.Green("OK (%s)", elapsed)
		if *verbose {
			prettyPrint(res)
		}
	}

	if failed {
		color.Red("\n❌ Backend is not answering chat requests")
		os.Exit(1)
	}
	color.Green("\n✅ Connection test passed")
}
