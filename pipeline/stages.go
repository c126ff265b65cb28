package pipeline

import (
	"context"
	"fmt"
	"strings"

	ai "github.com/spetersoncode/postflow"
)

// chatJSON sends a JSON-mode chat request and accumulates usage into state.
func chatJSON(ctx context.Context, c ChatClient, state *DraftState, system, user string, out any) error {
	resp, err := c.Chat(ctx, []ai.Message{
		ai.NewSystemMessage(system),
		ai.NewUserMessage(user),
	}, ai.WithJSONResponse())
	if err != nil {
		return err
	}
	state.Usage.Add(resp.Usage)
	return decodeJSON(resp.Content, out)
}

// chatText sends a plain chat request and accumulates usage into state.
func chatText(ctx context.Context, c ChatClient, state *DraftState, system, user string) (string, error) {
	resp, err := c.Chat(ctx, []ai.Message{
		ai.NewSystemMessage(system),
		ai.NewUserMessage(user),
	})
	if err != nil {
		return "", err
	}
	state.Usage.Add(resp.Usage)
	return strings.TrimSpace(resp.Content), nil
}

// preferencesLine renders the optional user preferences for a prompt.
func preferencesLine(input ai.PostInput) string {
	var parts []string
	if input.Tone != "" {
		parts = append(parts, "tone: "+input.Tone)
	}
	if input.Style != "" {
		parts = append(parts, "style: "+input.Style)
	}
	if input.Preferences != "" {
		parts = append(parts, input.Preferences)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "; ")
}

// researchStage analyzes the topic and extracts the insights worth
// building a post around.
type researchStage struct {
	client ChatClient
}

func (s *researchStage) Name() string { return "research" }

const researchSystem = `You are a research analyst specializing in professional social content.
Your job is to analyze a topic and extract key insights that would make compelling content.

Focus on:
1. Most recent and relevant developments
2. Unique angles or perspectives
3. Data points and statistics that support the narrative
4. Contrarian or thought-provoking insights

Provide a concise research summary and 3-5 key insights.`

func (s *researchStage) Run(ctx context.Context, state *DraftState) error {
	user := fmt.Sprintf(`Topic: %s

User preferences: %s

Provide your research summary and key insights in JSON format:
{"research_summary": "...", "key_insights": ["insight1", "insight2", "insight3"]}`,
		state.Input.Topic, preferencesLine(state.Input))

	var out struct {
		ResearchSummary string   `json:"research_summary"`
		KeyInsights     []string `json:"key_insights"`
	}
	if err := chatJSON(ctx, s.client, state, researchSystem, user, &out); err != nil {
		return err
	}

	state.ResearchSummary = out.ResearchSummary
	state.KeyInsights = out.KeyInsights
	return nil
}

// strategyStage turns research into a content plan.
type strategyStage struct {
	client ChatClient
}

func (s *strategyStage) Name() string { return "strategy" }

const strategySystem = `You are a professional content strategist with expertise in viral professional content.
Your job is to create a winning content strategy based on research insights.

Consider:
1. Target audience (professionals, decision-makers, industry peers)
2. Optimal post structure (hook, body, call-to-action)
3. Tone that balances professionalism with authenticity
4. Engagement triggers (questions, controversy, value)

Provide a detailed content strategy and outline.`

func (s *strategyStage) Run(ctx context.Context, state *DraftState) error {
	insights := "No specific insights available"
	if len(state.KeyInsights) > 0 {
		insights = strings.Join(state.KeyInsights, "\n")
	}

	user := fmt.Sprintf(`Topic: %s

Research Summary:
%s

Key Insights:
%s

User preferences: %s

Create a content strategy in JSON format:
{"target_audience": "...", "tone_guidelines": "...", "content_outline": "...", "engagement_strategy": "..."}`,
		state.Input.Topic, state.ResearchSummary, insights, preferencesLine(state.Input))

	var out struct {
		TargetAudience     string `json:"target_audience"`
		ToneGuidelines     string `json:"tone_guidelines"`
		ContentOutline     string `json:"content_outline"`
		EngagementStrategy string `json:"engagement_strategy"`
	}
	if err := chatJSON(ctx, s.client, state, strategySystem, user, &out); err != nil {
		return err
	}

	state.TargetAudience = out.TargetAudience
	state.ToneGuidelines = out.ToneGuidelines
	state.Outline = out.ContentOutline
	state.Strategy = out.EngagementStrategy
	return nil
}

// writeStage drafts the post body following the strategy.
type writeStage struct {
	client ChatClient
}

func (s *writeStage) Name() string { return "write" }

const writeSystem = `You are an expert professional copywriter known for creating viral, engaging content.

Your writing style:
- Compelling hooks that stop scrolling (first line is CRITICAL)
- Clear, concise paragraphs (2-3 lines each)
- Strategic use of line breaks for readability
- Conversational yet professional tone
- Data-driven when possible
- Authentic storytelling
- Strong call-to-action at the end

Length: 150-300 words.

DO NOT include hashtags - another specialist will handle that.
DO NOT use generic openings like "I'm excited to share" or "Thrilled to announce".`

func (s *writeStage) Run(ctx context.Context, state *DraftState) error {
	insights := "No specific insights"
	if len(state.KeyInsights) > 0 {
		insights = strings.Join(state.KeyInsights, "\n")
	}

	var constraints strings.Builder
	if state.EditorFeedback != "" {
		fmt.Fprintf(&constraints, "\nEditor feedback to address:\n%s\n", state.EditorFeedback)
	}
	if state.Feedback != "" {
		if state.Previous != nil {
			fmt.Fprintf(&constraints, "\nThis is a revision. The previous draft was:\n%s\n", state.Previous.Content)
		}
		fmt.Fprintf(&constraints, "\nThe author asked for these changes, which MUST be addressed:\n%s\n", state.Feedback)
	}

	user := fmt.Sprintf(`Topic: %s

Content Outline:
%s

Key Insights to Incorporate:
%s

Target Audience: %s
Tone: %s
%s
Write a compelling post following the strategy and outline.
Return ONLY the post content, no hashtags, no explanations.`,
		state.Input.Topic, state.Outline, insights,
		state.TargetAudience, state.ToneGuidelines, constraints.String())

	content, err := chatText(ctx, s.client, state, writeSystem, user)
	if err != nil {
		return err
	}

	state.Content = content
	return nil
}

// editStage reviews the draft and either approves it or improves it.
type editStage struct {
	client ChatClient
}

func (s *editStage) Name() string { return "edit" }

const editSystem = `You are a senior editor specializing in professional social content.
Your job is to critique and improve the draft.

Evaluate:
1. Hook strength - does it grab attention in the first line?
2. Clarity and readability - are paragraphs concise?
3. Value proposition - what does the reader gain?
4. Authenticity and credibility
5. Call-to-action effectiveness
6. Grammar and style

Be constructive but also know when content is GOOD ENOUGH.
Don't nitpick good content - approve it.`

func (s *editStage) Run(ctx context.Context, state *DraftState) error {
	user := fmt.Sprintf(`Draft Content:
%s

Original Topic: %s

Review this content. If it needs significant improvement, provide specific feedback.
If it's good enough or excellent, respond with APPROVED.

Format your response as JSON:
{"status": "APPROVED" or "NEEDS_REVISION", "feedback": "...", "revised_content": "..." (only if you made direct improvements, otherwise empty string)}`,
		state.Content, state.Input.Topic)

	var out struct {
		Status         string `json:"status"`
		Feedback       string `json:"feedback"`
		RevisedContent string `json:"revised_content"`
	}
	if err := chatJSON(ctx, s.client, state, editSystem, user, &out); err != nil {
		return err
	}

	// Prefer the editor's direct rewrite when it is substantial.
	if len(out.RevisedContent) > 50 {
		state.Content = strings.TrimSpace(out.RevisedContent)
	}
	if strings.Contains(strings.ToUpper(out.Status), "APPROVED") {
		state.EditorFeedback = ""
	} else {
		state.EditorFeedback = out.Feedback
	}
	return nil
}

// seoStage picks hashtags that maximize reach.
type seoStage struct {
	client ChatClient
}

func (s *seoStage) Name() string { return "seo" }

const seoSystem = `You are a social SEO specialist and feed-algorithm expert.
Your job is to select hashtags that maximize reach and engagement.

Guidelines:
1. Mix of popular (100K+ posts) and niche hashtags
2. 3-5 hashtags maximum
3. Relevant to both content and target audience
4. Include trending industry-specific tags
5. Avoid overly generic hashtags like #success or #motivation

Return hashtags WITHOUT the # symbol.`

func (s *seoStage) Run(ctx context.Context, state *DraftState) error {
	insights := "No specific insights"
	if len(state.KeyInsights) > 0 {
		insights = strings.Join(state.KeyInsights, "\n")
	}

	user := fmt.Sprintf(`Content:
%s

Topic: %s
Key Insights: %s

Generate 3-5 optimal hashtags for this post.

Return JSON:
{"hashtags": ["hashtag1", "hashtag2", "hashtag3"], "seo_notes": "brief explanation of hashtag strategy"}`,
		state.Content, state.Input.Topic, insights)

	var out struct {
		Hashtags []string `json:"hashtags"`
		SEONotes string   `json:"seo_notes"`
	}
	if err := chatJSON(ctx, s.client, state, seoSystem, user, &out); err != nil {
		return err
	}

	state.Hashtags = ai.ClampHashtags(out.Hashtags)
	state.SEONotes = out.SEONotes
	return nil
}

// visualStage writes an image generation prompt for the post. It runs
// only when the request asks for an image.
type visualStage struct {
	client ChatClient
}

func (s *visualStage) Name() string { return "visual" }

const visualSystem = `You are a creative director specializing in professional visual content.
Your job is to create detailed image generation prompts that will result in
professional, eye-catching visuals that complement the post content.

Guidelines:
1. Professional and polished aesthetic
2. Relevant to the content theme
3. Attention-grabbing but not gimmicky
4. High quality, modern style
5. Avoid text in images
6. Use vibrant but professional colors

Be specific about: composition, lighting, style, colors, mood.`

func (s *visualStage) Run(ctx context.Context, state *DraftState) error {
	if !state.Input.IncludeImage {
		return nil
	}

	themes := state.Input.Topic
	if len(state.KeyInsights) > 0 {
		themes = strings.Join(state.KeyInsights, ", ")
	}

	user := fmt.Sprintf(`Post Content:
%s

Topic: %s
Key Themes: %s

Create a detailed image generation prompt (100-150 words) that will produce
a professional, feed-worthy visual for this post.

Return only the image prompt text, no JSON or other formatting.`,
		state.Content, state.Input.Topic, themes)

	prompt, err := chatText(ctx, s.client, state, visualSystem, user)
	if err != nil {
		return err
	}

	state.ImagePrompt = prompt
	return nil
}
