// Package server provides the HTTP server for the imagerater API.
//
// This file contains general API documentation annotations for Swag/OpenAPI generation.
// Endpoint annotations live in the handler files.
package server

// @title Imagerater API
// @version 1.0
// @description REST API for rating a fixed list of images with 1 to 5 stars.
// @description
// @description Features:
// @description - Rate, unrate and list images under a star filter
// @description - Selection and filter-aware previous/next navigation
// @description - Real-time rating updates via WebSocket and Server-Sent Events
//
// @contact.name Agentstation
// @contact.url https://github.com/agentstation/imagerater
//
// @license.name MIT
// @license.url https://github.com/agentstation/imagerater/blob/master/LICENSE
//
// @host localhost:8080
// @BasePath /api/v1
