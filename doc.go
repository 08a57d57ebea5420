// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the mascon API server.

mascon is the backend for an event and conference app. Attendees browse
sessions, build a personal agenda, vote in live polls, ask questions, message
each other, swap contacts, and earn points on an event leaderboard.

# Starting the Server

Configuration comes from the environment (a .env file is loaded if present)
or CLI flags:

	DATABASE_URL=mascon.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string
  - JWT_SECRET (--jwt-secret): HS256 signing secret for bearer tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - APP_ENV (--env): local, dev or prod; selects the log handler
  - DEMO_LOGIN (--demo-login): enable GET /auth/demo-login
  - TOKEN_TTL: lifetime of demo tokens (default: 720h)

# Architecture

  - handlers: HTTP request handlers, one per feature area
  - services: domain logic and SQL
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, request logging, bearer auth, JSON helpers
  - models: Request/response and domain types
  - auth: IDs and JWT issue/verify
  - db: Connections, schema, driver error helpers
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
