// Package postflow generates social-media posts with AI and walks them
// through a human approval workflow.
//
// A caller describes a topic (plus tone, style, and free-text preferences)
// and receives a draft post: body text, hashtags, and optionally a generated
// image. The draft is held in a session until the caller approves it for
// publishing or sends it back with feedback for a bounded number of
// revisions.
//
// # Architecture
//
// The root package holds the shared vocabulary: messages and responses
// exchanged with generation providers, the post domain types ([Draft],
// [PostInput], [Session]), and the error taxonomy. Capabilities live in
// subpackages:
//
//   - [github.com/spetersoncode/postflow/client]: resilient access to
//     generation providers (retries, per-call timeouts, typed failures)
//   - [github.com/spetersoncode/postflow/pipeline]: the single-shot and
//     multi-agent generation strategies and the revision handler
//   - [github.com/spetersoncode/postflow/image]: image generation and asset
//     persistence
//   - [github.com/spetersoncode/postflow/workflow]: the session state
//     machine exposing Generate and Decide
//   - [github.com/spetersoncode/postflow/store]: session persistence
//   - [github.com/spetersoncode/postflow/publish]: posting approved content
//     to the target platform
//
// # Basic usage
//
//	c := client.New(client.Config{
//	    APIKeys:  client.APIKeys{Google: os.Getenv("GOOGLE_API_KEY")},
//	    Defaults: client.Defaults{Chat: model.Gemini25Flash, Image: model.Imagen4},
//	})
//
//	engine := workflow.New(workflow.Config{
//	    Store:     store.NewMemory(),
//	    Single:    pipeline.NewSingleShot(c),
//	    Multi:     pipeline.NewMultiAgent(c),
//	    Images:    image.New(c, image.NewFSStore("generated_images")),
//	    Publisher: publish.NewSimulator(),
//	})
//
//	sess, err := engine.Generate(ctx, postflow.PostInput{
//	    Topic:        "Future of AI agents in enterprise",
//	    Tone:         "professional",
//	    IncludeImage: true,
//	})
//
//	// ... show sess.Draft to the user ...
//
//	result, err := engine.Decide(ctx, sess.ID, workflow.Decision{Approved: true})
//
// # Error handling
//
// External failures are categorized as transient (retried automatically) or
// permanent (surfaced immediately); workflow misuse is reported through
// [ValidationError], [ConflictError], and [NotFoundError] so callers can
// distinguish "try again later" from "this input is invalid" from "you
// already decided this session".
package postflow
