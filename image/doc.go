// Package image turns a text prompt into a stored image asset.
//
// The pipeline asks the configured image provider for one image, decodes
// it, and persists it through an [AssetStore]. The default store writes
// PNG files to a local directory.
package image
