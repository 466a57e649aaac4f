// Command demo runs a small tool-calling conversation against Claude,
// streaming progress to the terminal.
//
// With AWS credentials configured it talks to Bedrock; set ANTHROPIC_API_KEY
// and pass -direct to use the Anthropic API instead. Environment variables
// are also read from a .env file if present.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	ai "github.com/xpand-io/bedrockai"
	"github.com/xpand-io/bedrockai/agent"
	"github.com/xpand-io/bedrockai/provider/anthropic"
	"github.com/xpand-io/bedrockai/provider/bedrock"
	"github.com/xpand-io/bedrockai/stream"
	"github.com/xpand-io/bedrockai/tool"
)

type weatherArgs struct {
	City string `json:"city" desc:"City name, e.g. Oslo" required:"true"`
}

type clockArgs struct{}

func main() {
	godotenv.Load()

	direct := flag.Bool("direct", false, "use the Anthropic API instead of Bedrock")
	verbose := flag.Bool("v", false, "enable debug logging")
	prompt := flag.String("p", "What's the weather in Tokyo right now, and what time is it there?", "prompt to run")
	flag.Parse()

	ctx := context.Background()

	var source stream.Source
	if *direct {
		source = anthropic.New()
	} else {
		source = bedrock.New(ctx)
	}

	registry := tool.NewRegistry()
	tool.MustBindTo(registry, "get_weather", "Get the current weather for a city",
		func(ctx context.Context, args weatherArgs) (any, error) {
			return map[string]any{
				"city":        args.City,
				"temperature": 22,
				"unit":        "celsius",
				"conditions":  "partly cloudy",
			}, nil
		})
	tool.MustBindTo(registry, "current_time", "Get the current UTC time",
		func(ctx context.Context, args clockArgs) (any, error) {
			return time.Now().UTC().Format(time.RFC3339), nil
		})

	opts := []agent.Option{
		agent.WithObserver(printChunk),
		agent.WithRequestOptions(ai.WithMaxTokens(1024)),
	}
	if *verbose {
		opts = append(opts, agent.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	result, err := agent.New(source, registry).Query(ctx, *prompt, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println(result.Text)
	fmt.Printf("(%d turns, %d tokens)\n", len(result.Messages), result.TotalTokens())
}

func printChunk(c stream.Chunk) {
	switch c.Kind {
	case stream.ChunkText:
		fmt.Print(c.Text)
	case stream.ChunkReasoning:
		fmt.Fprint(os.Stderr, c.Text)
	case stream.ChunkToolUseStart:
		fmt.Printf("\n[tool: %s]", c.ToolName)
	case stream.ChunkMessageStop:
		fmt.Println()
	}
}
