// Command mcp exposes the post generation workflow as an MCP server
// over stdio, so MCP clients can draft, revise, and publish posts.
//
// Configuration for Claude Desktop (~/Library/Application Support/Claude/claude_desktop_config.json):
//
//	{
//	    "mcpServers": {
//	        "postflow": {
//	            "command": "go",
//	            "args": ["run", "./cmd/mcp"],
//	            "cwd": "/path/to/postflow"
//	        }
//	    }
//	}
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	ai "github.com/spetersoncode/postflow"
	"github.com/spetersoncode/postflow/client"
	"github.com/spetersoncode/postflow/image"
	"github.com/spetersoncode/postflow/model"
	"github.com/spetersoncode/postflow/pipeline"
	"github.com/spetersoncode/postflow/publish"
	"github.com/spetersoncode/postflow/store"
	"github.com/spetersoncode/postflow/workflow"
)

func main() {
	godotenv.Load()

	engine, err := buildEngine()
	if err != nil {
		log.Fatal(err)
	}

	s := server.NewMCPServer(
		"postflow",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.AddTool(generatePostTool(), handleGeneratePost(engine))
	s.AddTool(decidePostTool(), handleDecidePost(engine))
	s.AddTool(getSessionTool(), handleGetSession(engine))

	if err := server.ServeStdio(s); err != nil {
		log.Fatal(err)
	}
}

func buildEngine() (*workflow.Engine, error) {
	googleKey := os.Getenv("GEMINI_API_KEY")
	if googleKey == "" {
		googleKey = os.Getenv("GOOGLE_API_KEY")
	}

	c := client.New(client.Config{
		APIKeys: client.APIKeys{
			Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
			OpenAI:    os.Getenv("OPENAI_API_KEY"),
			Google:    googleKey,
		},
		Defaults: client.Defaults{
			Chat:  model.DefaultGeminiModel,
			Image: model.DefaultImagenModel,
		},
	})

	var sessions store.SessionStore
	if path := os.Getenv("POSTFLOW_DB_PATH"); path != "" && path != "memory" {
		var err error
		sessions, err = store.NewSQLite(store.SQLiteConfig{Path: path})
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
	} else {
		sessions = store.NewMemory()
	}

	var publisher publish.Publisher = publish.NewSimulator()
	li := publish.LinkedInConfig{
		AccessToken: os.Getenv("LINKEDIN_ACCESS_TOKEN"),
		PersonID:    os.Getenv("LINKEDIN_PERSON_ID"),
	}
	if li.Configured() {
		publisher = publish.NewLinkedIn(li)
	}

	imageDir := os.Getenv("POSTFLOW_IMAGE_DIR")
	if imageDir == "" {
		imageDir = "generated_images"
	}

	return workflow.New(workflow.Config{
		Store:     sessions,
		Single:    pipeline.NewSingleShot(c),
		Multi:     pipeline.NewMultiAgent(c),
		Images:    image.New(c, image.NewFSStore(imageDir)),
		Publisher: publisher,
	}), nil
}

func generatePostTool() mcp.Tool {
	return mcp.NewTool("generate_post",
		mcp.WithDescription("Generate a professional post draft on a topic. Returns a session awaiting an approve or revise decision."),
		mcp.WithString("topic", mcp.Required(),
			mcp.Description("What the post should be about (10 to 500 characters)")),
		mcp.WithString("tone",
			mcp.Description("Desired tone, such as 'conversational' or 'authoritative'")),
		mcp.WithString("style",
			mcp.Description("Writing style preferences")),
		mcp.WithBoolean("include_image",
			mcp.Description("Also generate a header image for the post")),
		mcp.WithBoolean("use_multi_agent",
			mcp.Description("Run the multi-agent pipeline with research and editing stages instead of a single model call")),
	)
}

func decidePostTool() mcp.Tool {
	return mcp.NewTool("decide_post",
		mcp.WithDescription("Approve a drafted post for publishing, or reject it with feedback to get a revision."),
		mcp.WithString("session_id", mcp.Required(),
			mcp.Description("Session ID returned by generate_post")),
		mcp.WithBoolean("approved", mcp.Required(),
			mcp.Description("True to publish the draft, false to request a revision")),
		mcp.WithString("feedback",
			mcp.Description("What to change, required when approved is false")),
	)
}

func getSessionTool() mcp.Tool {
	return mcp.NewTool("get_session",
		mcp.WithDescription("Look up the current state of a post generation session."),
		mcp.WithString("session_id", mcp.Required(),
			mcp.Description("Session ID returned by generate_post")),
	)
}

type generatePostArgs struct {
	Topic         string `json:"topic"`
	Tone          string `json:"tone"`
	Style         string `json:"style"`
	IncludeImage  bool   `json:"include_image"`
	UseMultiAgent bool   `json:"use_multi_agent"`
}

func handleGeneratePost(engine *workflow.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args generatePostArgs
		if err := bindArguments(req, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		topic := strings.TrimSpace(args.Topic)
		if len(topic) < ai.MinTopicLength || len(topic) > ai.MaxTopicLength {
			return mcp.NewToolResultError(fmt.Sprintf(
				"topic must be between %d and %d characters", ai.MinTopicLength, ai.MaxTopicLength)), nil
		}

		session, err := engine.Generate(ctx, ai.PostInput{
			Topic:         topic,
			Tone:          args.Tone,
			Style:         args.Style,
			IncludeImage:  args.IncludeImage,
			UseMultiAgent: args.UseMultiAgent,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return sessionResult(session)
	}
}

type decidePostArgs struct {
	SessionID string `json:"session_id"`
	Approved  bool   `json:"approved"`
	Feedback  string `json:"feedback"`
}

func handleDecidePost(engine *workflow.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args decidePostArgs
		if err := bindArguments(req, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if args.SessionID == "" {
			return mcp.NewToolResultError("session_id is required"), nil
		}

		session, err := engine.Decide(ctx, args.SessionID, workflow.Decision{
			Approved: args.Approved,
			Feedback: args.Feedback,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return sessionResult(session)
	}
}

type getSessionArgs struct {
	SessionID string `json:"session_id"`
}

func handleGetSession(engine *workflow.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args getSessionArgs
		if err := bindArguments(req, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		session, err := engine.Session(ctx, args.SessionID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return sessionResult(session)
	}
}

// bindArguments unmarshals the request arguments into a typed struct.
func bindArguments(req mcp.CallToolRequest, v any) error {
	args := req.GetArguments()
	if args == nil {
		args = map[string]any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func sessionResult(session *ai.Session) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
