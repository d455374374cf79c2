// Package handlers provides the HTTP entry points of the thumbnail
// service: upload and download per item, lifecycle event ingestion,
// and the health and version endpoints.
package handlers
