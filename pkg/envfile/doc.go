// Package envfile writes the .env file the container orchestrator reads.
//
// Seven variables are written, one KEY=value per line, unquoted:
// DOMAIN, AUTH_DOMAIN, POSTGRES_SYNAPSE_PASSWORD, POSTGRES_AUTHENTIK_PASSWORD,
// AUTHENTIK_SECRET_KEY, AUTHENTIK_BOOTSTRAP_PASSWORD and AUTHENTIK_BOOTSTRAP_TOKEN.
// A value holding a line break cannot be represented and is rejected.
package envfile
