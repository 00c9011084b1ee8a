// Package cosmos talks to the OpenC3 COSMOS JSON-RPC API and exposes its
// script surface as a namespace.
//
// Every request is a JSON-RPC 2.0 POST to /openc3-api/api carrying
// positional params plus keyword_params; the scope keyword defaults to
// DEFAULT. Authentication uses either the plain password (open-source
// COSMOS) or a Keycloak access token obtained with the password grant and
// refreshed through golang.org/x/oauth2.
package cosmos
