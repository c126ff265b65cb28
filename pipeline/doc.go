// Package pipeline implements content generation strategies for post
// drafts.
//
// Two strategies are provided. [SingleShot] produces a draft with one
// structured chat call. [MultiAgent] runs a sequence of specialized
// stages (research, strategy, write, edit, seo, visual), each refining
// a shared [DraftState], trading latency and tokens for quality.
//
// Both implement [Generator] and handle revisions: when a request
// carries user feedback and a previous draft, the strategy regenerates
// the draft with the feedback as an additional constraint.
package pipeline
