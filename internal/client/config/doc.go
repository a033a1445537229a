// Package config loads runtime configuration for the storefront CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or --config.
//  3. Environment variables, after loading an optional .env file.
//  4. Command-line flags that were explicitly set.
//
// # JSON schema
//
// Durations are strings like "30s" or integer nanoseconds:
//
//	{
//	  "catalog_url": "https://fakestoreapi.com",
//	  "identity_endpoint": "https://identitytoolkit.googleapis.com/v1",
//	  "api_key": "...",
//	  "google": {"web_client_id": "...", "android_client_id": "...", "platform": "web"},
//	  "http_timeout": "30s",
//	  "handshake_timeout": "5m",
//	  "database_path": "storefront.db",
//	  "log_level": "info"
//	}
//
// # Environment
//
//	STOREFRONT_CATALOG_URL, STOREFRONT_IDENTITY_ENDPOINT, STOREFRONT_API_KEY,
//	EXPO_PUBLIC_GOOGLE_WEB_CLIENT_ID, EXPO_PUBLIC_GOOGLE_ANDROID_CLIENT_ID,
//	STOREFRONT_GOOGLE_CLIENT_SECRET, STOREFRONT_GOOGLE_PLATFORM,
//	STOREFRONT_HTTP_TIMEOUT, STOREFRONT_HANDSHAKE_TIMEOUT,
//	STOREFRONT_DB, STOREFRONT_LOG_LEVEL
//
// The Google client ids keep the names used by the mobile build so one .env
// file serves both.
package config
