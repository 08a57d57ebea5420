// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from the environment and CLI flags.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

The environment is read first with caarlos0/env; flags override it.

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type (sqlite or postgres)
	--env         local, dev or prod
	--demo-login  Enable the demo login route
	--jwt-secret  JWT signing secret

# Environment Variables

	PORT, DATABASE_URL, DATABASE_TYPE, APP_ENV, DEMO_LOGIN, JWT_SECRET, TOKEN_TTL

# Validation

ParseFlags returns an error if:

  - the port is out of range
  - DATABASE_URL is empty
  - DATABASE_TYPE is not sqlite or postgres
  - JWT_SECRET is empty
*/
package cliparse
