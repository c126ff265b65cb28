// Package publish delivers approved drafts to their destination.
//
// The LinkedIn publisher posts through the UGC API, uploading the
// draft's image as a feed-share asset first when one is present. The
// simulator stands in when no credentials are configured so the rest of
// the workflow behaves identically in development.
package publish
