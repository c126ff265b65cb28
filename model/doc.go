// Package model provides the catalog of known chat and image generation
// models. Models carry their provider so the client can route requests to
// the right backend.
package model
