// Package client provides a unified client over the Anthropic, OpenAI and
// Google providers. The model passed to a call (or the configured default)
// determines which backend serves it; provider clients are initialized
// lazily the first time their provider is needed.
//
// Every outbound call runs under the configured request timeout and is
// retried on transient failures (rate limits, 5xx, network timeouts)
// according to the retry configuration. Permanent failures return
// immediately.
//
//	c := client.New(client.Config{
//	    APIKeys:  client.APIKeys{Google: os.Getenv("GEMINI_API_KEY")},
//	    Defaults: client.Defaults{Chat: model.Gemini25Flash, Image: model.Imagen4},
//	})
//
//	resp, err := c.Chat(ctx, []postflow.Message{
//	    postflow.NewUserMessage("Draft a post about Go generics."),
//	})
package client
